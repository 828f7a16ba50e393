package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the backend needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage uploads photos to a bucket under the reports/ prefix.
type S3Storage struct {
	client    PutObjectAPI
	bucket    string
	publicURL string
}

// NewS3Storage returns an S3 backend. publicURL is the origin objects are
// readable from (bucket website, CDN or R2 public URL).
func NewS3Storage(client PutObjectAPI, bucket, publicURL string) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Save streams body to the bucket with an explicit content length.
func (s *S3Storage) Save(ctx context.Context, name, contentType string, body io.ReadSeeker, size int64) (string, error) {
	key := "reports/" + name

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to s3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
