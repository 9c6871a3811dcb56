// Package reader turns user-selected files into base64 payloads ready to be
// sent to the extraction service.
package reader

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrRead is returned when a selected file cannot be read.
var ErrRead = errors.New("reading file failed")

// Payload is a document encoded for transfer.
type Payload struct {
	Name      string
	MediaType string
	// Data is standard base64 without any data URL prefix.
	Data string
}

// Bytes decodes the payload data.
func (p Payload) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding payload %s: %w", p.Name, err)
	}
	return b, nil
}

// Source is a selected file.
type Source interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

// Read loads src and encodes its content.
func Read(src Source) (Payload, error) {
	rc, err := src.Open()
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %s: %w", ErrRead, src.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %s: %w", ErrRead, src.Name(), err)
	}

	return Payload{
		Name:      src.Name(),
		MediaType: src.MediaType(),
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Supported reports whether files of mediaType may be selected: images and PDFs.
func Supported(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/") || mt == "application/pdf"
}

type fileSource struct {
	path      string
	mediaType string
}

// FromPath returns a Source for a file on disk. The media type is sniffed from
// the file content, falling back to the extension when the file cannot be
// opened yet; a missing file only fails once it is read.
func FromPath(path string) Source {
	return &fileSource{path: path, mediaType: detectPath(path)}
}

func (f *fileSource) Name() string      { return filepath.Base(f.path) }
func (f *fileSource) MediaType() string { return f.mediaType }

func (f *fileSource) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

func detectPath(path string) string {
	if mt, err := mimetype.DetectFile(path); err == nil && mt.String() != "application/octet-stream" {
		return mt.String()
	}
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

type memSource struct {
	name      string
	mediaType string
	data      []byte
}

// FromBytes returns a Source over an in-memory copy of a file. An empty
// mediaType is detected from data.
func FromBytes(name, mediaType string, data []byte) Source {
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = mimetype.Detect(data).String()
	}
	return &memSource{name: name, mediaType: mediaType, data: data}
}

func (m *memSource) Name() string      { return m.name }
func (m *memSource) MediaType() string { return m.mediaType }

func (m *memSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

type failedSource struct {
	name      string
	mediaType string
	err       error
}

// Failed returns a Source whose Open always fails with err. It carries a
// selection that could not be captured so the failure is reported for that
// file alone.
func Failed(name, mediaType string, err error) Source {
	return &failedSource{name: name, mediaType: mediaType, err: err}
}

func (f *failedSource) Name() string                 { return f.name }
func (f *failedSource) MediaType() string            { return f.mediaType }
func (f *failedSource) Open() (io.ReadCloser, error) { return nil, f.err }
