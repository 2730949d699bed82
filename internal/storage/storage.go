package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	// Delete removes an object; a missing object is not an error.
	Delete(ctx context.Context, objectName string) error
}

type Config struct {
	Backend string // gcs|minio

	GCSBucket string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// New returns the uploader for cfg.Backend and a func releasing its resources.
func New(ctx context.Context, cfg Config) (Uploader, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "gcs":
		if cfg.GCSBucket == "" {
			return nil, nil, fmt.Errorf("GCS_BUCKET is required for the gcs storage backend")
		}
		u, err := NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		return u, u.Close, nil
	case "minio":
		u, err := NewMinioUploader(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, nil, err
		}
		return u, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ContentTypeFor maps a resume extension to the stored content type.
func ContentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
