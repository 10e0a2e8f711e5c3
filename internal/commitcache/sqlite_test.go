package commitcache

import (
	"path/filepath"
	"testing"
	"time"

	"mpage/internal/config"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteCache() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	_, ok, err := c.Get("1월/1째주/2024-01-01.md")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for a missing path")
	}
}

func TestSQLiteCache_PutGetRoundTrip(t *testing.T) {
	c := newTestCache(t)

	at := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)
	if err := c.Put("1월/3째주/2024-01-15.md", at); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get("1월/3째주/2024-01-15.md")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false after Put")
	}
	if !got.Equal(at) {
		t.Errorf("Get() = %v, want %v", got, at)
	}
}

func TestSQLiteCache_PutReplaces(t *testing.T) {
	c := newTestCache(t)

	first := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)
	second := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)

	if err := c.Put("a.md", first); err != nil {
		t.Fatalf("first Put() error = %v", err)
	}
	if err := c.Put("a.md", second); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	got, ok, err := c.Get("a.md")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", got, ok, err)
	}
	if !got.Equal(second) {
		t.Errorf("Get() = %v, want the replaced value %v", got, second)
	}
}

func TestSQLiteCache_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commit-times.db")
	at := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("NewSQLiteCache() error = %v", err)
	}
	if err := c.Put("a.md", at); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	c2, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer c2.Close()

	got, ok, err := c2.Get("a.md")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = %v, %v, %v", got, ok, err)
	}
	if !got.Equal(at) {
		t.Errorf("Get() = %v, want %v", got, at)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	at := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)

	if _, ok, _ := c.Get("a.md"); ok {
		t.Error("Get() ok = true on empty cache")
	}
	if err := c.Put("a.md", at); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok, err := c.Get("a.md")
	if err != nil || !ok || !got.Equal(at) {
		t.Errorf("Get() = %v, %v, %v, want %v", got, ok, err, at)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("off returns nil", func(t *testing.T) {
		c, err := NewFromConfig(config.CommitCacheConfig{Type: "off"})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		if c != nil {
			t.Error("cache != nil for type off")
		}
	})

	t.Run("memory", func(t *testing.T) {
		c, err := NewFromConfig(config.CommitCacheConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		if _, ok := c.(*MemoryCache); !ok {
			t.Errorf("cache = %T, want *MemoryCache", c)
		}
	})

	t.Run("sqlite requires a path", func(t *testing.T) {
		if _, err := NewFromConfig(config.CommitCacheConfig{Type: "sqlite"}); err == nil {
			t.Fatal("NewFromConfig() error = nil, want path-required error")
		}
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		if _, err := NewFromConfig(config.CommitCacheConfig{Type: "redis"}); err == nil {
			t.Fatal("NewFromConfig() error = nil, want unknown-type error")
		}
	})
}
