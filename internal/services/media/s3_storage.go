package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
)

type S3Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string

	ensureOnce sync.Once
	ensureErr  error
}

// NewS3Storage builds a storage over a public-read bucket. Portfolio images
// are served directly from object storage, so objects get plain URLs instead
// of presigned ones.
func NewS3Storage(client *minio.Client, bucket, endpoint string, useSSL bool) *S3Storage {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &S3Storage{
		client:  client,
		bucket:  strings.TrimSpace(bucket),
		baseURL: fmt.Sprintf("%s://%s/%s/", scheme, strings.TrimSpace(endpoint), strings.TrimSpace(bucket)),
	}
}

func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, s.ensureErr)
	}

	return nil
}

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("s3 client is nil")
	}
	if key == "" || len(data) == 0 {
		return "", ErrValidation
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object to s3: %w", err)
	}

	return s.baseURL + key, nil
}

// DeleteByURL removes the object a previously returned URL points at. URLs
// that do not belong to this bucket are ignored.
func (s *S3Storage) DeleteByURL(ctx context.Context, rawURL string) error {
	if s.client == nil || rawURL == "" {
		return nil
	}

	key, ok := strings.CutPrefix(rawURL, s.baseURL)
	if !ok || key == "" {
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}
