// Package storage keeps uploaded file contents in an S3-compatible object
// store. Metadata lives in the database; this package only sees opaque keys.
package storage

import (
	"context"
	"io"
)

type BlobStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
