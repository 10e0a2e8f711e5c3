package journal

import (
	"strings"
	"sync"
)

// Cache is the in-memory file store keyed by repository path: the single
// source of truth the rest of the client reads from. It is safe for
// concurrent use. Every mutation bumps a snapshot version so derived views
// (tree, heatmap) can detect change without diffing.
//
// Construct one per session and thread it explicitly; there is no package
// level instance.
type Cache struct {
	mu      sync.RWMutex
	records map[string]FileRecord
	version uint64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{records: make(map[string]FileRecord)}
}

// ReplaceAll discards the current contents and installs the given records.
func (c *Cache) ReplaceAll(records []FileRecord) {
	m := make(map[string]FileRecord, len(records))
	for _, r := range records {
		m[r.Path] = r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = m
	c.version++
}

// Get returns the record at path.
func (c *Cache) Get(path string) (FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[path]
	return r, ok
}

// GetAll returns a copy of all records, in no particular order.
func (c *Cache) GetAll() []FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]FileRecord, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	return out
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Upsert inserts or replaces the record keyed by its path.
func (c *Cache) Upsert(record FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.Path] = record
	c.version++
}

// Patch merges a partial update into the record at path. A patch for an
// absent path is a no-op. Patches for different paths merge independently
// and never lose each other's updates.
func (c *Cache) Patch(path string, patch RecordPatch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.records[path]
	if !ok {
		return false
	}
	c.records[path] = patch.apply(r)
	c.version++
	return true
}

// Remove deletes the record at path, if present.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[path]; ok {
		delete(c.records, path)
		c.version++
	}
}

// FindByDatePrefix returns the first record whose name contains the given
// date string. Linear scan; repositories top out at a few thousand entries.
func (c *Cache) FindByDatePrefix(date string) (FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.records {
		if strings.Contains(r.Name, date) {
			return r, true
		}
	}
	return FileRecord{}, false
}

// Version returns the current snapshot version. It increases on every
// mutation.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
