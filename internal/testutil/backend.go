package testutil

import (
	"testing"
	"time"

	"mpage/internal/datepath"
	"mpage/internal/journal"
	"mpage/internal/remote"
)

// NewTestBackend creates an in-memory backend driven by the given clock.
// A nil clock uses the wall clock.
func NewTestBackend(clock journal.Clock) *remote.MemoryBackend {
	return remote.NewMemoryBackend(clock)
}

// SeedEntry writes a journal entry for the given date into the backend at
// its canonical month/week path and returns that path. committedAt becomes
// the entry's recorded commit time.
func SeedEntry(t *testing.T, backend *remote.MemoryBackend, date time.Time, content string, committedAt time.Time) string {
	t.Helper()

	loc := datepath.ForDate(date)
	backend.Seed(loc.Path, content, committedAt)
	return loc.Path
}

// SeedTitledEntry is SeedEntry for an entry saved with a title after the
// date prefix, e.g. "2024-01-15 아침 단상.md".
func SeedTitledEntry(t *testing.T, backend *remote.MemoryBackend, date time.Time, title, content string, committedAt time.Time) string {
	t.Helper()

	loc := datepath.ForDate(date)
	name := datepath.FileName(loc.ISODate, title)
	path := loc.MonthFolder + "/" + loc.WeekFolder + "/" + name
	backend.Seed(path, content, committedAt)
	return path
}
