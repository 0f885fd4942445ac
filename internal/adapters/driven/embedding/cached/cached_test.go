package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*countingEmbedder)(nil)

type countingEmbedder struct {
	model      string
	embedCalls int
	batchCalls int
	err        error
	seen       [][]string
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.embedCalls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1, 2}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	c.seen = append(c.seen, texts)
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1, 2}
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int            { return 3 }
func (c *countingEmbedder) ModelName() string          { return c.model }
func (c *countingEmbedder) Ping(context.Context) error { return nil }
func (c *countingEmbedder) Close() error               { return nil }

type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string][]byte)} }

func (c *mapCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}
func (c *mapCache) Set(key string, value []byte, _ time.Duration) { c.entries[key] = value }
func (c *mapCache) Delete(key string)                             { delete(c.entries, key) }

func TestEmbed_CachesByContent(t *testing.T) {
	inner := &countingEmbedder{model: "m1"}
	svc := New(inner, newMapCache())
	ctx := context.Background()

	first, err := svc.Embed(ctx, "petition for divorce")
	require.NoError(t, err)

	second, err := svc.Embed(ctx, "petition for divorce")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.embedCalls)

	_, err = svc.Embed(ctx, "different text")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.embedCalls)
}

func TestEmbed_KeyIncludesModel(t *testing.T) {
	cache := newMapCache()
	ctx := context.Background()

	svcA := New(&countingEmbedder{model: "model-a"}, cache)
	svcB := New(&countingEmbedder{model: "model-b"}, cache)

	_, err := svcA.Embed(ctx, "same text")
	require.NoError(t, err)
	_, err = svcB.Embed(ctx, "same text")
	require.NoError(t, err)

	// Same content under two models occupies two cache slots.
	assert.Len(t, cache.entries, 2)
}

func TestEmbedBatch_OnlyMissesHitInner(t *testing.T) {
	inner := &countingEmbedder{model: "m1"}
	svc := New(inner, newMapCache())
	ctx := context.Background()

	_, err := svc.Embed(ctx, "cached already")
	require.NoError(t, err)

	out, err := svc.EmbedBatch(ctx, []string{"fresh one", "cached already", "fresh two"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, vec := range out {
		assert.Len(t, vec, 3)
	}

	require.Len(t, inner.seen, 1)
	assert.Equal(t, []string{"fresh one", "fresh two"}, inner.seen[0])
}

func TestEmbedBatch_AllCachedSkipsInner(t *testing.T) {
	inner := &countingEmbedder{model: "m1"}
	svc := New(inner, newMapCache())
	ctx := context.Background()

	texts := []string{"a", "b"}
	_, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)

	_, err = svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batchCalls)
}

func TestEmbed_InnerErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{model: "m1", err: errors.New("quota exceeded")}
	cache := newMapCache()
	svc := New(inner, cache)

	_, err := svc.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestNilCacheDefaultsToNop(t *testing.T) {
	inner := &countingEmbedder{model: "m1"}
	svc := New(inner, nil)
	ctx := context.Background()

	_, err := svc.Embed(ctx, "text")
	require.NoError(t, err)
	_, err = svc.Embed(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.embedCalls)
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.125, 0}
	assert.Equal(t, vec, decodeVector(encodeVector(vec)))

	assert.Nil(t, decodeVector(nil))
	assert.Nil(t, decodeVector([]byte{1, 2, 3}))
}
