package driver

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get when no object is stored under the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectDriver stores opaque blobs by key. The dataset store keeps the whole
// building collection in a single object.
type ObjectDriver interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Close(ctx context.Context) error
}
