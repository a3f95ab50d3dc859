package embedcache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process vector cache layer.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache with the given TTL.
func NewMemory(ttl, cleanupInterval time.Duration) *Memory {
	return &Memory{cache: gocache.New(ttl, cleanupInterval)}
}

// Get retrieves a vector.
func (m *Memory) Get(key string) ([]float32, bool) {
	if val, found := m.cache.Get(key); found {
		return val.([]float32), true
	}
	return nil, false
}

// Set stores a vector with the default TTL.
func (m *Memory) Set(key string, vector []float32) {
	m.cache.Set(key, vector, gocache.DefaultExpiration)
}
