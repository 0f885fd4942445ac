// Package memory provides an in-memory blob store for local development
// and tests. Objects live only for the process lifetime.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

type object struct {
	content     []byte
	contentType string
	updatedAt   time.Time
}

// BlobStore is an in-memory driven.BlobStore. Safe for concurrent use.
type BlobStore struct {
	mu      sync.RWMutex
	buckets map[string]domain.Bucket
	objects map[string]map[string]object // bucket -> path -> object
	order   map[string][]string          // bucket -> paths in upload order

	// now is injectable for tests.
	now func() time.Time
}

// NewBlobStore creates an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		buckets: make(map[string]domain.Bucket),
		objects: make(map[string]map[string]object),
		order:   make(map[string][]string),
		now:     time.Now,
	}
}

// BucketExists reports whether the named bucket exists.
func (s *BlobStore) BucketExists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.buckets[name]
	return ok, nil
}

// CreateBucket creates a bucket. Returns domain.ErrAlreadyExists when the
// bucket is already present.
func (s *BlobStore) CreateBucket(ctx context.Context, bucket domain.Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[bucket.Name]; ok {
		return fmt.Errorf("bucket %q: %w", bucket.Name, domain.ErrAlreadyExists)
	}

	s.buckets[bucket.Name] = bucket
	s.objects[bucket.Name] = make(map[string]object)
	return nil
}

// Upload stores an object. The bucket must exist.
func (s *BlobStore) Upload(ctx context.Context, bucket, path string, content []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	objs, ok := s.objects[bucket]
	if !ok {
		return fmt.Errorf("bucket %q: %w", bucket, domain.ErrNotFound)
	}

	if _, exists := objs[path]; !exists {
		s.order[bucket] = append(s.order[bucket], path)
	}
	stored := make([]byte, len(content))
	copy(stored, content)
	objs[path] = object{content: stored, contentType: contentType, updatedAt: s.now()}
	return nil
}

// List enumerates objects in a bucket in upload order.
func (s *BlobStore) List(ctx context.Context, bucket string) ([]domain.BlobObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objs, ok := s.objects[bucket]
	if !ok {
		return nil, fmt.Errorf("bucket %q: %w", bucket, domain.ErrNotFound)
	}

	listed := make([]domain.BlobObject, 0, len(objs))
	for _, path := range s.order[bucket] {
		obj := objs[path]
		listed = append(listed, domain.BlobObject{
			Name:        path,
			Size:        int64(len(obj.content)),
			ContentType: obj.contentType,
			UpdatedAt:   obj.updatedAt,
		})
	}
	return listed, nil
}

// SignedURL derives a stable pseudo-URL for an object. There is no real
// signing; the URL is only meaningful within the process.
func (s *BlobStore) SignedURL(ctx context.Context, bucket, path string, ttlSeconds int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objs, ok := s.objects[bucket]
	if !ok {
		return "", fmt.Errorf("bucket %q: %w", bucket, domain.ErrNotFound)
	}
	if _, ok := objs[path]; !ok {
		return "", fmt.Errorf("object %q: %w", path, domain.ErrNotFound)
	}

	return fmt.Sprintf("memory://%s/%s", bucket, path), nil
}

// Get returns a stored object's content. Test helper, not part of the port.
func (s *BlobStore) Get(bucket, path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objs, ok := s.objects[bucket]
	if !ok {
		return nil, false
	}
	obj, ok := objs[path]
	if !ok {
		return nil, false
	}
	return obj.content, true
}
