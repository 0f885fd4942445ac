// Package supabase provides a BlobStore adapter over the Supabase Storage
// REST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// listPageSize is the page size for object listing requests.
	listPageSize = 100
)

// Config holds configuration for the Supabase storage client.
type Config struct {
	// ProjectURL is the Supabase project URL (required),
	// e.g. https://xyzcompany.supabase.co.
	ProjectURL string

	// ServiceKey is the service-role API key (required). Bucket management
	// and signing require the service role.
	ServiceKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// BlobStore talks to the Supabase Storage API.
type BlobStore struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewBlobStore creates a Supabase storage client.
func NewBlobStore(cfg Config) (*BlobStore, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase: service key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &BlobStore{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.ProjectURL, "/") + "/storage/v1",
		apiKey:  cfg.ServiceKey,
	}, nil
}

// bucketInfo is the Storage API bucket representation.
type bucketInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// objectInfo is the Storage API object representation.
type objectInfo struct {
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
	Metadata  struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimetype"`
	} `json:"metadata"`
}

// BucketExists reports whether the named bucket exists.
func (s *BlobStore) BucketExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.do(ctx, http.MethodGet, "/bucket/"+url.PathEscape(name), nil, "")
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	defer resp.Body.Close()
	return true, nil
}

// CreateBucket creates a bucket. Returns domain.ErrAlreadyExists when the
// bucket is already present.
func (s *BlobStore) CreateBucket(ctx context.Context, bucket domain.Bucket) error {
	body, err := json.Marshal(map[string]any{
		"name":   bucket.Name,
		"id":     bucket.Name,
		"public": bucket.Public,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, "/bucket", bytes.NewReader(body), "application/json")
	if err != nil {
		if IsConflict(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	resp.Body.Close()
	return nil
}

// Upload stores an object with the given content type. Existing objects at
// the same path are overwritten.
func (s *BlobStore) Upload(ctx context.Context, bucket, path string, content []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	endpoint := "/object/" + url.PathEscape(bucket) + "/" + escapeObjectPath(path)
	resp, err := s.do(ctx, http.MethodPost, endpoint, bytes.NewReader(content), contentType)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// List enumerates objects in a bucket.
func (s *BlobStore) List(ctx context.Context, bucket string) ([]domain.BlobObject, error) {
	var objects []domain.BlobObject

	for offset := 0; ; offset += listPageSize {
		body, err := json.Marshal(map[string]any{
			"prefix": "",
			"limit":  listPageSize,
			"offset": offset,
			"sortBy": map[string]string{"column": "name", "order": "asc"},
		})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}

		resp, err := s.do(ctx, http.MethodPost, "/object/list/"+url.PathEscape(bucket),
			bytes.NewReader(body), "application/json")
		if err != nil {
			return nil, err
		}

		var page []objectInfo
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		for _, obj := range page {
			blob := domain.BlobObject{
				Name:        obj.Name,
				Size:        obj.Metadata.Size,
				ContentType: obj.Metadata.MimeType,
			}
			if t, err := time.Parse(time.RFC3339, obj.UpdatedAt); err == nil {
				blob.UpdatedAt = t
			}
			objects = append(objects, blob)
		}

		if len(page) < listPageSize {
			break
		}
	}

	return objects, nil
}

// SignedURL derives a time-limited access URL for an object.
func (s *BlobStore) SignedURL(ctx context.Context, bucket, path string, ttlSeconds int) (string, error) {
	body, err := json.Marshal(map[string]int{"expiresIn": ttlSeconds})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := "/object/sign/" + url.PathEscape(bucket) + "/" + escapeObjectPath(path)
	resp, err := s.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if signed.SignedURL == "" {
		return "", fmt.Errorf("supabase: empty signed URL returned")
	}

	// The API returns a path relative to /storage/v1.
	return s.baseURL + signed.SignedURL, nil
}

// do executes a request and maps non-2xx responses to typed errors.
func (s *BlobStore) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Minute
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		resp.Body.Close()
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		message := strings.TrimSpace(string(raw))
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil {
			if errBody.Message != "" {
				message = errBody.Message
			} else if errBody.Error != "" {
				message = errBody.Error
			}
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			URL:        req.URL.String(),
		}
	}

	return resp, nil
}

// escapeObjectPath escapes each path segment while keeping separators.
func escapeObjectPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
