package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
)

// Ensure StorageService implements the interface.
var _ driving.StorageService = (*StorageService)(nil)

// StorageService proxies bucket and object operations to the managed
// storage backend and writes document records for uploads.
type StorageService struct {
	blobs    driven.BlobStore
	docStore driven.DocumentStore
	now      func() time.Time
}

// NewStorageService creates a storage service.
func NewStorageService(blobs driven.BlobStore, docStore driven.DocumentStore) *StorageService {
	return &StorageService{
		blobs:    blobs,
		docStore: docStore,
		now:      time.Now,
	}
}

// BucketExists reports whether the named bucket exists.
func (s *StorageService) BucketExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("%w: bucket name is required", domain.ErrInvalidInput)
	}
	exists, err := s.blobs.BucketExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%w: check bucket %q: %v", domain.ErrBlobFailure, name, err)
	}
	return exists, nil
}

// EnsureBucket creates the bucket if absent. Returns true when the bucket
// already existed. Creation racing another creator is treated as success.
func (s *StorageService) EnsureBucket(ctx context.Context, name string, public bool) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("%w: bucket name is required", domain.ErrInvalidInput)
	}

	exists, err := s.blobs.BucketExists(ctx, name)
	if err != nil {
		logger.Warn("storage: bucket existence check failed, attempting create anyway: %v", err)
	}
	if exists {
		return true, nil
	}

	err = s.blobs.CreateBucket(ctx, domain.Bucket{Name: name, Public: public})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return true, nil
		}
		return false, fmt.Errorf("%w: create bucket %q: %v", domain.ErrBlobFailure, name, err)
	}
	return false, nil
}

// Upload stores a file and writes its document record.
//
// The blob write and the record write are two independent phases. A failed
// record write after a stored blob is reported as success-with-warning;
// the uploaded artifact is deliberately never rolled back.
func (s *StorageService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.UploadReceipt, error) {
	if req.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	if req.ContentBase64 == "" {
		return nil, fmt.Errorf("%w: file content is required", domain.ErrInvalidInput)
	}

	content, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode file content: %v", domain.ErrInvalidInput, err)
	}

	path := s.uniquePath(req.FileName)
	logger.Debug("storage: uploading %q as %q (%d bytes)", req.FileName, path, len(content))

	// Phase 1: blob
	if _, err := s.EnsureBucket(ctx, domain.DefaultBucket, true); err != nil {
		return nil, err
	}
	if err := s.blobs.Upload(ctx, domain.DefaultBucket, path, content, req.ContentType); err != nil {
		return nil, fmt.Errorf("%w: upload %q: %v", domain.ErrBlobFailure, path, err)
	}

	url, err := s.blobs.SignedURL(ctx, domain.DefaultBucket, path, int(domain.SignedURLTTL.Seconds()))
	if err != nil {
		logger.Warn("storage: signed URL for %q failed: %v", path, err)
		url = "/" + domain.DefaultBucket + "/" + path
	}

	receipt := &domain.UploadReceipt{
		FileName:   req.FileName,
		Path:       path,
		URL:        url,
		BlobStored: true,
	}

	// Phase 2: document record
	doc := &domain.Document{
		ID:          uuid.New().String(),
		Title:       req.FileName,
		SourceName:  req.FileName,
		ContentType: req.ContentType,
		CaseID:      req.CaseID,
		Path:        path,
		URL:         url,
		Size:        int64(len(content)),
		Metadata: map[string]any{
			"original_name": req.FileName,
			"upload_source": "api",
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("storage: document record for %q failed: %v", path, err)
		receipt.Warning = "file uploaded successfully, but database record creation failed"
		return receipt, nil
	}

	receipt.RecordStored = true
	receipt.DocumentID = doc.ID
	return receipt, nil
}

// ListFiles enumerates objects in the named bucket with signed URLs.
// Per-object URL failures are logged; the object is listed without a URL.
func (s *StorageService) ListFiles(ctx context.Context, bucket string) ([]domain.BlobObject, error) {
	if bucket == "" {
		bucket = domain.DefaultBucket
	}

	objects, err := s.blobs.List(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: list bucket %q: %v", domain.ErrBlobFailure, bucket, err)
	}

	for i := range objects {
		url, err := s.blobs.SignedURL(ctx, bucket, objects[i].Name, int(domain.SignedURLTTL.Seconds()))
		if err != nil {
			logger.Warn("storage: signed URL for %q failed: %v", objects[i].Name, err)
			continue
		}
		objects[i].SignedURL = url
	}
	return objects, nil
}

// uniquePath builds a collision-resistant object path from the filename.
func (s *StorageService) uniquePath(fileName string) string {
	safe := strings.ReplaceAll(fileName, " ", "_")
	return fmt.Sprintf("%d_%s_%s", s.now().Unix(), uuid.New().String()[:8], safe)
}
