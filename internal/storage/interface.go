package storage

import (
	"context"
	"io"
)

// ObjectStorage is where flower images live.
type ObjectStorage interface {
	// Upload stores an object under key
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens an object for reading
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the URL a browser can load the object from
	GetURL(key string) string

	// Delete removes an object
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is present
	Exists(ctx context.Context, key string) (bool, error)
}
