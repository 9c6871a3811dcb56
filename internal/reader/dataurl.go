package reader

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseDataURL strips the "data:<media type>;base64," container from s and
// returns the raw encoded content with its media type.
func ParseDataURL(name, s string) (Payload, error) {
	header, data, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return Payload{}, fmt.Errorf("%s: not a data URL", name)
	}

	params := strings.Split(strings.TrimPrefix(header, "data:"), ";")
	if params[len(params)-1] != "base64" {
		return Payload{}, fmt.Errorf("%s: data URL is not base64 encoded", name)
	}
	mediaType := params[0]
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return Payload{}, fmt.Errorf("%s: invalid base64 content: %w", name, err)
	}

	return Payload{Name: name, MediaType: mediaType, Data: data}, nil
}

// DataURL renders p back into data URL form.
func (p Payload) DataURL() string {
	return "data:" + p.MediaType + ";base64," + p.Data
}
