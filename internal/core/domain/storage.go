package domain

import "time"

// Bucket is a named container in blob storage.
type Bucket struct {
	// Name is the bucket identifier.
	Name string

	// Public marks the bucket as publicly readable.
	Public bool
}

// BlobObject is a named binary object within a bucket.
type BlobObject struct {
	// Name is the object path within the bucket.
	Name string

	// Size is the object size in bytes.
	Size int64

	// ContentType is the stored MIME type.
	ContentType string

	// UpdatedAt is the last modification time reported by the backend.
	UpdatedAt time.Time

	// SignedURL is a time-limited access URL. Empty when URL derivation failed;
	// the object is still listed.
	SignedURL string
}

// UploadReceipt is the explicit two-phase result of a file upload.
// The blob write and the metadata record write succeed or fail independently;
// a stored blob with a failed record is reported as success-with-warning
// rather than rolled back.
type UploadReceipt struct {
	// FileName is the original filename.
	FileName string

	// Path is the unique object path the blob was stored under.
	Path string

	// URL is the derived access URL for the blob.
	URL string

	// BlobStored reports whether the binary content reached blob storage.
	BlobStored bool

	// RecordStored reports whether the document metadata record was written.
	RecordStored bool

	// DocumentID is the stored document record's ID, when RecordStored.
	DocumentID string

	// Warning carries the record-write failure message when the upload
	// succeeded only partially.
	Warning string
}

// DefaultBucket is the bucket used for document uploads.
const DefaultBucket = "documents"

// SignedURLTTL is the lifetime of derived access URLs.
const SignedURLTTL = time.Hour
