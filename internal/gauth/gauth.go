// Package gauth provides Google-authenticated HTTP clients for the Vertex AI
// backend.
package gauth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth2 scope Vertex AI requires.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// DefaultHTTPClient returns a client authorized with application default
// credentials (GOOGLE_APPLICATION_CREDENTIALS, gcloud login or the metadata
// server).
func DefaultHTTPClient(ctx context.Context, log zerolog.Logger) (*http.Client, error) {
	ts, err := google.DefaultTokenSource(ctx, CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("finding application default credentials: %w", err)
	}
	return NewHTTPClient(ctx, ts, log), nil
}

// NewHTTPClient wraps ts so tokens are reused until they expire and every
// refresh is logged.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource, log zerolog.Logger) *http.Client {
	src := &loggingSource{
		base: ts,
		log:  log.With().Str("component", "gauth").Logger(),
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, src))
}

type loggingSource struct {
	base oauth2.TokenSource
	log  zerolog.Logger
}

func (s *loggingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		s.log.Error().Err(err).Msg("token refresh failed")
		return nil, fmt.Errorf("fetching access token: %w", err)
	}
	s.log.Debug().Time("expiry", tok.Expiry).Msg("access token refreshed")
	return tok, nil
}
