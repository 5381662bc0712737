package storage

import (
	"context"
	"io"
	"time"
)

// Store is one object-store bucket. The API wiring builds one Store per
// bucket (tender-pdfs, compliance-docs, template-files); the cleanup job
// additionally gets a Store built with the elevated service-role key.
type Store interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	Remove(ctx context.Context, objectName string) error
	SignedURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
