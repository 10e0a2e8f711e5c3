// Package commitcache provides local memo stores for last-commit-time
// lookups. The remote repository stays the source of truth: the memo only
// spares repeated commits-API calls across runs, and deleting it is always
// safe.
package commitcache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mpage/internal/commitcache/migrations"
	"mpage/internal/journal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCache implements journal.CommitTimeCache backed by a SQLite file.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) the cache database at path and brings
// its schema up to date. path can be ":memory:" for tests.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open commit cache: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating commit cache: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get returns the memoized commit time for path, if any.
func (c *SQLiteCache) Get(path string) (time.Time, bool, error) {
	var savedAt time.Time
	err := c.db.QueryRow("SELECT saved_at FROM commit_times WHERE path = ?", path).Scan(&savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("reading commit time: %w", err)
	}
	return savedAt, true, nil
}

// Put memoizes the commit time for path, replacing any previous value.
func (c *SQLiteCache) Put(path string, t time.Time) error {
	_, err := c.db.Exec(`
		INSERT INTO commit_times (path, saved_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET saved_at = excluded.saved_at, updated_at = excluded.updated_at`,
		path, t.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing commit time: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var _ journal.CommitTimeCache = (*SQLiteCache)(nil)
