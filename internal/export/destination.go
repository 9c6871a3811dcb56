package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Destination stores an exported file and returns where it ended up.
type Destination interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Dir writes exports into a local directory.
type Dir string

// Put writes data atomically: a temp file is written then renamed.
func (d Dir) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	dir := string(d)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export error creating directory: %w", err)
	}

	target := filepath.Join(dir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("export error writing temp file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("export error renaming temp file: %w", err)
	}
	return target, nil
}

// objectPutter is the part of the S3 client used here.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads exports to a bucket.
type S3 struct {
	client objectPutter
	bucket string
	prefix string
}

// S3Options configures the S3 destination.
type S3Options struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the service URL, e.g. a LocalStack instance.
	// Static test credentials are used when it is set.
	Endpoint string
}

// NewS3 builds an S3 destination from the default AWS credential chain.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

// Put uploads data under prefix/name.
func (s *S3) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(s.prefix, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to bucket %s: %w", key, s.bucket, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
