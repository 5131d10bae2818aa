// Package cache provides the in-memory cache behind the catalog snapshot and
// HTTP response caching. It wraps patrickmn/go-cache and counts hits, misses
// and flushes.
package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NoExpiration keeps an entry until it is deleted or the cache is cleared.
const NoExpiration = gocache.NoExpiration

// Cache wraps go-cache with hit accounting and an epoch counter.
type Cache struct {
	store  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
	epoch  atomic.Uint64
}

// New creates a cache. A zero defaultTTL means entries never expire; a zero
// cleanupInterval disables the janitor goroutine.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	if defaultTTL == 0 {
		defaultTTL = NoExpiration
	}
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items and starts a new epoch.
func (c *Cache) Clear() {
	c.store.Flush()
	c.epoch.Add(1)
}

// Epoch returns the number of times the cache has been cleared.
func (c *Cache) Epoch() uint64 {
	return c.epoch.Load()
}

// ItemCount returns the number of items in the cache, including expired
// items not yet cleaned up.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	ItemCount int    `json:"item_count" yaml:"item_count"`
	Hits      int64  `json:"hits" yaml:"hits"`
	Misses    int64  `json:"misses" yaml:"misses"`
	Epoch     uint64 `json:"epoch" yaml:"epoch"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Epoch:     c.epoch.Load(),
	}
}
