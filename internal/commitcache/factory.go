package commitcache

import (
	"fmt"

	"mpage/internal/config"
	"mpage/internal/journal"
)

// NewFromConfig creates a CommitTimeCache based on the commit cache config
// type. Type "off" (and "") returns nil: the gateway then skips memoization
// entirely.
func NewFromConfig(cfg config.CommitCacheConfig) (journal.CommitTimeCache, error) {
	switch cfg.Type {
	case "", "off":
		return nil, nil
	case "memory":
		return NewMemoryCache(), nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite commit cache requires path to be set")
		}
		return NewSQLiteCache(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown commit cache type: %s", cfg.Type)
	}
}
