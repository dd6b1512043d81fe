package port

import "context"

// BlobStore abstracts durable key/value object storage.
// Get returns domain.ErrNotFound when the key does not exist.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
