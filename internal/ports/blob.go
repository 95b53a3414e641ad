package ports

import "context"

// BlobStore is the binary content area. Keys are opaque; only the media
// service writes to it.
type BlobStore interface {
	// Put replaces the content under key as one atomic write.
	Put(ctx context.Context, key string, data []byte) error
	// Get fails with apperr.ErrMediaNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is nil when the key is already absent.
	Delete(ctx context.Context, key string) error
}
