package cmd

import (
	"context"

	"github.com/mendonca-galvao/horaextra/internal/export"
	"github.com/mendonca-galvao/horaextra/internal/extract"
	"github.com/mendonca-galvao/horaextra/internal/gauth"
)

// newExtractor builds the Gemini client for the configured backend.
func newExtractor(ctx context.Context) (*extract.Gemini, error) {
	opts := extract.Options{
		APIKey:   cfg.Extraction.APIKey,
		Backend:  cfg.Extraction.Backend,
		Model:    cfg.Extraction.Model,
		Project:  cfg.Extraction.Project,
		Location: cfg.Extraction.Location,
		Timeout:  cfg.Extraction.Timeout,
	}
	if opts.Backend == extract.BackendVertex {
		client, err := gauth.DefaultHTTPClient(ctx, log)
		if err != nil {
			return nil, err
		}
		opts.HTTPClient = client
	}
	return extract.NewGemini(ctx, opts, log)
}

// newDestination returns the S3 bucket when one is configured, dir otherwise.
func newDestination(ctx context.Context, dir string) (export.Destination, error) {
	if cfg.Export.S3Bucket == "" {
		return export.Dir(dir), nil
	}
	return export.NewS3(ctx, export.S3Options{
		Bucket:   cfg.Export.S3Bucket,
		Prefix:   cfg.Export.S3Prefix,
		Region:   cfg.Export.S3Region,
		Endpoint: cfg.Export.S3Endpoint,
	})
}
