package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage abstracts where captured photos and reference images live.
type FileStorage interface {
	// Upload writes a file and returns the stored path/key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a stored file.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// GetURL generates a public or presigned URL for a stored file.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks whether the file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// ReadBytes downloads a file and returns its full contents.
func ReadBytes(ctx context.Context, fs FileStorage, path string) ([]byte, error) {
	rc, err := fs.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
