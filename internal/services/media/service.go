package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation = errors.New("validation error")
	ErrTooLarge   = errors.New("image too large")
)

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}

// Upload is an image file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type Service struct {
	storage  ObjectStorage
	maxBytes int64
	maxWidth int
	quality  int
	now      func() time.Time
}

func NewService(storage ObjectStorage, maxBytes int64, maxWidth, quality int) *Service {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}

	return &Service{
		storage:  storage,
		maxBytes: maxBytes,
		maxWidth: maxWidth,
		quality:  quality,
		now:      time.Now,
	}
}

// UploadImage compresses the upload and writes it to object storage. It
// returns the public URL of the stored object.
func (s *Service) UploadImage(ctx context.Context, folder string, upload Upload) (string, error) {
	if len(upload.Data) == 0 || strings.TrimSpace(folder) == "" {
		return "", ErrValidation
	}
	if int64(len(upload.Data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", ErrValidation
	}
	if s.storage == nil {
		return "", fmt.Errorf("media storage is not configured")
	}

	compressed, err := Compress(upload.Data, s.maxWidth, s.quality)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return "", ErrValidation
		}
		return "", fmt.Errorf("compress image: %w", err)
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key, err := buildObjectKey(folder)
	if err != nil {
		return "", fmt.Errorf("build object key: %w", err)
	}

	url, err := s.storage.Put(ctx, key, compressed, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return url, nil
}

// DeleteImage removes a stored image. Failures are the caller's to ignore,
// deletes run after the owning record is already gone.
func (s *Service) DeleteImage(ctx context.Context, rawURL string) error {
	if s.storage == nil || strings.TrimSpace(rawURL) == "" {
		return nil
	}
	return s.storage.DeleteByURL(ctx, rawURL)
}

func buildObjectKey(folder string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	folder = strings.Trim(strings.TrimSpace(folder), "/")
	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s/%s_%s.jpg", folder, stamp, hex.EncodeToString(rnd)), nil
}
