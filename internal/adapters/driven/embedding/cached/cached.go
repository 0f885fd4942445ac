// Package cached decorates an embedding service with a read-through cache.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultTTL bounds how long a cached embedding is reused. Embeddings are
// deterministic per model, so the TTL mostly bounds memory.
const DefaultTTL = 24 * time.Hour

// EmbeddingService caches embeddings by content digest, keyed per model so
// a model switch never serves stale vectors.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.Cache
	ttl   time.Duration
}

// New wraps an embedding service with a cache. Pass driven.NopCache{} to
// disable caching.
func New(inner driven.EmbeddingService, cache driven.Cache) *EmbeddingService {
	if cache == nil {
		cache = driven.NopCache{}
	}
	return &EmbeddingService{inner: inner, cache: cache, ttl: DefaultTTL}
}

// Embed returns the cached embedding for text, or generates and caches it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.key(text)
	if raw, ok := s.cache.Get(key); ok {
		if vec := decodeVector(raw); vec != nil {
			return vec, nil
		}
		s.cache.Delete(key)
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, encodeVector(vec), s.ttl)
	return vec, nil
}

// EmbedBatch serves cached entries and sends only the misses to the inner
// service, preserving input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	var missTexts []string
	var missIndex []int

	for i, text := range texts {
		if raw, ok := s.cache.Get(s.key(text)); ok {
			if vec := decodeVector(raw); vec != nil {
				out[i] = vec
				continue
			}
			s.cache.Delete(s.key(text))
		}
		missTexts = append(missTexts, text)
		missIndex = append(missIndex, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, vec := range fresh {
		i := missIndex[j]
		out[i] = vec
		s.cache.Set(s.key(texts[i]), encodeVector(vec), s.ttl)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the name of the underlying embedding model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping validates the underlying service is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close releases the underlying service's resources.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

// key derives the cache key from the content and the model identity.
func (s *EmbeddingService) key(text string) string {
	sum := sha256.Sum256([]byte(s.inner.ModelName() + "\x00" + text))
	return "emb:" + hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) []float32 {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec
}
