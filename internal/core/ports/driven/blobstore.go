package driven

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// BlobStore provides bucket-scoped object storage, backed by a managed
// storage service (Supabase Storage in production).
type BlobStore interface {
	// BucketExists reports whether the named bucket exists.
	BucketExists(ctx context.Context, name string) (bool, error)

	// CreateBucket creates a bucket. Returns domain.ErrAlreadyExists when
	// the bucket is already present.
	CreateBucket(ctx context.Context, bucket domain.Bucket) error

	// Upload stores an object with the given content type.
	Upload(ctx context.Context, bucket, path string, content []byte, contentType string) error

	// List enumerates objects in a bucket.
	List(ctx context.Context, bucket string) ([]domain.BlobObject, error)

	// SignedURL derives a time-limited access URL for an object.
	SignedURL(ctx context.Context, bucket, path string, ttlSeconds int) (string, error)
}
