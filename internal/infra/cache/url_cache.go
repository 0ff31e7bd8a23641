package cache

import (
	"context"
	"sync"
	"time"
)

// URLCache stores presigned URLs until shortly before they expire.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, url string, expiry time.Time)
	Delete(ctx context.Context, keys ...string)
}

// CacheEntry represents a cached URL with expiration
type CacheEntry struct {
	URL        string
	ExpiryTime time.Time
}

// MemoryURLCache provides thread-safe URL caching
type MemoryURLCache struct {
	cache map[string]CacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryURLCache creates a new URL cache instance
func NewMemoryURLCache() *MemoryURLCache {
	return &MemoryURLCache{
		cache: make(map[string]CacheEntry),
		now:   time.Now,
	}
}

// Get retrieves a URL from cache if not expired
func (c *MemoryURLCache) Get(_ context.Context, key string) (string, bool) {
	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.ExpiryTime) {
		return entry.URL, true
	}

	return "", false
}

// Set stores a URL in cache with expiration time
func (c *MemoryURLCache) Set(_ context.Context, key string, url string, expiry time.Time) {
	c.mutex.Lock()
	c.cache[key] = CacheEntry{
		URL:        url,
		ExpiryTime: expiry,
	}
	c.mutex.Unlock()
}

func (c *MemoryURLCache) Delete(_ context.Context, keys ...string) {
	c.mutex.Lock()
	for _, key := range keys {
		delete(c.cache, key)
	}
	c.mutex.Unlock()
}

// Clear removes expired entries from cache
func (c *MemoryURLCache) Clear() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.cache {
		if now.After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}
