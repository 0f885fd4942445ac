package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(10)

	c.Set("k1", []byte("v1"), time.Minute)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c := New(10)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("k1", []byte("v1"), time.Minute)

	_, ok := c.Get("k1")
	require.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get("k1")
	assert.False(t, ok)
	assert.Zero(t, c.Size())
}

func TestCache_NonPositiveTTLIsNoop(t *testing.T) {
	c := New(10)

	c.Set("k1", []byte("v1"), 0)
	c.Set("k2", []byte("v2"), -time.Second)

	assert.Zero(t, c.Size())
}

func TestCache_Delete(t *testing.T) {
	c := New(10)

	c.Set("k1", []byte("v1"), time.Minute)
	c.Delete("k1")
	c.Delete("missing")

	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(2)

	c.Set("k1", []byte("v1"), time.Minute)
	c.Set("k2", []byte("v2"), time.Minute)

	// Touch k1 so k2 becomes the eviction candidate.
	_, ok := c.Get("k1")
	require.True(t, ok)

	c.Set("k3", []byte("v3"), time.Minute)

	_, ok = c.Get("k1")
	assert.True(t, ok)
	_, ok = c.Get("k2")
	assert.False(t, ok)
	_, ok = c.Get("k3")
	assert.True(t, ok)
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New(2)

	c.Set("k1", []byte("v1"), time.Minute)
	c.Set("k2", []byte("v2"), time.Minute)
	c.Set("k1", []byte("updated"), time.Minute)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []byte("updated"), got)

	_, ok = c.Get("k2")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}
