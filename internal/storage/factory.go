package storage

import (
	"fmt"
	"strings"

	"github.com/timmy/flowerpower/internal/config"
)

// Image backends
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// NewImageStorage creates the ObjectStorage that holds flower images.
// Parameters:
//   - images: image settings (backend, local dir, URL prefix).
//   - s3cfg: S3-compatible settings used by the s3 backend.
// Returns:
//   - ObjectStorage: initialized storage implementation.
//   - error: non-nil if the backend is unknown or cannot be created.
func NewImageStorage(images *config.ImagesConfig, s3cfg *config.StorageConfig) (ObjectStorage, error) {
	switch images.Backend {
	case BackendLocal, "":
		return NewLocalStorage(images.Dir, images.URLPrefix)
	case BackendS3:
		return NewStorage(&S3Config{
			Type:      StorageType(s3cfg.Type),
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			UseSSL:    s3cfg.UseSSL,
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Prefix:    s3cfg.Prefix,
			PublicURL: s3cfg.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown image backend: %q", images.Backend)
	}
}

// NewStorage creates an S3-compatible storage, detecting the flavour from
// the endpoint when cfg.Type is empty.
func NewStorage(cfg *S3Config) (*S3Storage, error) {
	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}
	return NewS3Storage(cfg)
}

func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case endpoint == "" || strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
