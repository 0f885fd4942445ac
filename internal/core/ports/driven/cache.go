package driven

import "time"

// Cache is a best-effort key-value cache with per-entry TTL.
//
// Caching is a capability, not a requirement: the no-op implementation makes
// "no cache" a configuration choice rather than a runtime exception path.
// Callers must treat a miss and a disabled cache identically.
type Cache interface {
	// Get returns the cached value for key, and whether it was present
	// and unexpired.
	Get(key string) ([]byte, bool)

	// Set stores value under key for the given TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes key.
	Delete(key string)
}

// NopCache is a Cache that stores nothing. It is the disabled-cache
// configuration.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (NopCache) Set(string, []byte, time.Duration) {}

// Delete does nothing.
func (NopCache) Delete(string) {}
