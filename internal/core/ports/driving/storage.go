package driving

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// UploadRequest describes a base64-encoded file upload.
type UploadRequest struct {
	// FileName is the original filename (required).
	FileName string

	// ContentBase64 is the base64-encoded file content (required).
	ContentBase64 string

	// ContentType is the MIME type of the file.
	ContentType string

	// CaseID optionally associates the upload with a case.
	CaseID string
}

// StorageService proxies bucket and object operations to the managed
// storage backend.
type StorageService interface {
	// BucketExists reports whether the named bucket exists.
	BucketExists(ctx context.Context, name string) (bool, error)

	// EnsureBucket creates the bucket if absent. Returns true when the
	// bucket already existed.
	EnsureBucket(ctx context.Context, name string, public bool) (bool, error)

	// Upload stores a file and writes its document record. The two phases
	// succeed or fail independently; see domain.UploadReceipt.
	Upload(ctx context.Context, req UploadRequest) (*domain.UploadReceipt, error)

	// ListFiles enumerates objects in the named bucket with signed URLs.
	ListFiles(ctx context.Context, bucket string) ([]domain.BlobObject, error)
}
