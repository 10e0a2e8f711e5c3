package commitcache

import (
	"sync"
	"time"

	"mpage/internal/journal"
)

// MemoryCache is an in-memory implementation of journal.CommitTimeCache.
// Useful for testing and for running without a data directory. Safe for
// concurrent use.
type MemoryCache struct {
	mu    sync.RWMutex
	times map[string]time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{times: make(map[string]time.Time)}
}

// Get returns the memoized commit time for path, if any.
func (c *MemoryCache) Get(path string) (time.Time, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.times[path]
	return t, ok, nil
}

// Put memoizes the commit time for path.
func (c *MemoryCache) Put(path string, t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.times[path] = t
	return nil
}

// Close is a no-op for the in-memory cache.
func (c *MemoryCache) Close() error { return nil }

var _ journal.CommitTimeCache = (*MemoryCache)(nil)
