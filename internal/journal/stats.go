package journal

import (
	"context"
	"time"
)

// StatsSnapshot is the remote-persisted cumulative/streak counter document.
// It is only ever advanced by ApplyWrite, never recomputed from scratch.
type StatsSnapshot struct {
	TotalDays int    `json:"totalDays"`
	Streak    int    `json:"streak"`
	LastDate  string `json:"lastDate,omitempty"` // YYYY-MM-DD, "" before the first write
}

// ApplyWrite advances the snapshot for a write on the given date and reports
// whether anything changed.
//
//	no prior date        → both counters initialize to 1
//	same day as LastDate → no-op
//	exactly the next day → totalDays+1, streak+1
//	any other gap        → totalDays+1, streak resets to 1
func (s StatsSnapshot) ApplyWrite(date string) (StatsSnapshot, bool) {
	switch {
	case s.LastDate == "":
		return StatsSnapshot{TotalDays: 1, Streak: 1, LastDate: date}, true
	case s.LastDate == date:
		return s, false
	case isNextDay(s.LastDate, date):
		return StatsSnapshot{TotalDays: s.TotalDays + 1, Streak: s.Streak + 1, LastDate: date}, true
	default:
		return StatsSnapshot{TotalDays: s.TotalDays + 1, Streak: 1, LastDate: date}, true
	}
}

// isNextDay reports whether b is exactly one calendar day after a.
func isNextDay(a, b string) bool {
	da, err := time.Parse("2006-01-02", a)
	if err != nil {
		return false
	}
	db, err := time.Parse("2006-01-02", b)
	if err != nil {
		return false
	}
	return da.AddDate(0, 0, 1).Equal(db)
}

// StatsKeeper reads and advances the stats document in the repository.
type StatsKeeper struct {
	backend Backend
	logger  Logger
}

// NewStatsKeeper creates a StatsKeeper over the given backend.
func NewStatsKeeper(backend Backend, logger Logger) *StatsKeeper {
	return &StatsKeeper{backend: backend, logger: logger}
}

// Load returns the current snapshot and its version id. An absent document
// is KindConfigNotFound; callers start from the zero snapshot in that case.
func (k *StatsKeeper) Load(ctx context.Context) (StatsSnapshot, string, error) {
	var snap StatsSnapshot
	sha, err := readDocument(ctx, k.backend, StatsDocPath, &snap)
	if err != nil {
		return StatsSnapshot{}, "", err
	}
	return snap, sha, nil
}

// RecordWrite advances the remote snapshot for a write on date. A missing
// document initializes from zero. Same-day repeats write nothing.
func (k *StatsKeeper) RecordWrite(ctx context.Context, date string) error {
	snap, sha, err := k.Load(ctx)
	if err != nil && !IsKind(err, KindConfigNotFound) {
		return err
	}

	next, changed := snap.ApplyWrite(date)
	if !changed {
		k.logger.Debug("stats unchanged", "date", date)
		return nil
	}

	if err := writeDocument(ctx, k.backend, StatsDocPath, commitMsgUpdateStats, next, sha); err != nil {
		return err
	}
	k.logger.Info("stats updated", "totalDays", next.TotalDays, "streak", next.Streak)
	return nil
}

var _ StatsUpdater = (*StatsKeeper)(nil)
