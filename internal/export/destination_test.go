package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Put(t *testing.T) {
	fake := &fakePutter{}
	dest := &S3{client: fake, bucket: "exports", prefix: "ponto/2024"}

	where, err := dest.Put(context.Background(), "a.xlsx", XLSXContentType, []byte("data"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if where != "s3://exports/ponto/2024/a.xlsx" {
		t.Errorf("location = %q", where)
	}
	if aws.ToString(fake.in.Bucket) != "exports" || aws.ToString(fake.in.Key) != "ponto/2024/a.xlsx" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(fake.in.Bucket), aws.ToString(fake.in.Key))
	}
	if aws.ToString(fake.in.ContentType) != XLSXContentType {
		t.Errorf("content type = %q", aws.ToString(fake.in.ContentType))
	}
	if fake.body != "data" {
		t.Errorf("body = %q", fake.body)
	}

	fake.err = errors.New("access denied")
	if _, err := dest.Put(context.Background(), "a.xlsx", XLSXContentType, nil); err == nil {
		t.Error("expected upload error")
	}
}
