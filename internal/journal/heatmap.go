package journal

import (
	"context"
	"sync"

	"mpage/internal/datepath"
)

// HeatmapStatus classifies how early in the day an entry was committed.
type HeatmapStatus string

const (
	StatusGray   HeatmapStatus = "gray"
	StatusGreen  HeatmapStatus = "green"
	StatusOrange HeatmapStatus = "orange"
	StatusRed    HeatmapStatus = "red"
)

// Fixed fallback thresholds used when no time windows are configured.
const (
	morningHour   = 10
	afternoonHour = 14
)

// HeatmapCell is one derived calendar day. Cells are recomputed from the
// cache on every relevant change and never mutated in place.
type HeatmapCell struct {
	Date   string
	Status HeatmapStatus
	Title  string
}

// BuildHeatmapData derives one cell per record with an extractable date.
// A record with no resolved commit time is Gray. A record committed on the
// same local calendar day as its title date is classified by time of day,
// either by the configured windows or by the fixed 10:00/14:00 thresholds.
// A record committed on a different day is Gray with an annotated tooltip.
func BuildHeatmapData(records []FileRecord, windows *TimeWindows) []HeatmapCell {
	cells := make([]HeatmapCell, 0, len(records))

	for _, rec := range records {
		date := datepath.ExtractDate(rec.Name)
		if date == "" {
			continue
		}

		cell := HeatmapCell{
			Date:   date,
			Status: StatusGray,
			Title:  datepath.HumanizeTitle(rec.Name),
		}

		if rec.SavedAt != nil {
			saved := rec.SavedAt.Local()
			if datepath.FormatDate(saved) == date {
				cell.Status = classify(saved.Hour()*60+saved.Minute(), windows)
				cell.Title += " • " + saved.Format("2006-01-02 15:04")
			} else {
				cell.Title += " • 커밋: " + saved.Format("2006-01-02 15:04") + " (다른 날)"
			}
		}

		cells = append(cells, cell)
	}
	return cells
}

func classify(minute int, windows *TimeWindows) HeatmapStatus {
	if windows != nil {
		switch {
		case windows.Green.Contains(minute):
			return StatusGreen
		case windows.Orange.Contains(minute):
			return StatusOrange
		default:
			return StatusRed
		}
	}

	switch {
	case minute < morningHour*60:
		return StatusGreen
	case minute < afternoonHour*60:
		return StatusOrange
	default:
		return StatusRed
	}
}

// Backfiller resolves missing commit timestamps for cached records with a
// bounded worker pool. Each success is patched into the cache independently;
// each failure is skipped. A path is marked requested before its lookup
// starts, so overlapping runs never double-issue the same fetch.
type Backfiller struct {
	cache   *Cache
	gateway *Gateway
	logger  Logger
	workers int

	mu        sync.Mutex
	requested map[string]bool
}

// DefaultBackfillWorkers bounds the number of concurrent history lookups.
const DefaultBackfillWorkers = 4

// NewBackfiller creates a backfiller over the given cache and gateway.
// workers <= 0 selects the default pool size.
func NewBackfiller(cache *Cache, gateway *Gateway, logger Logger, workers int) *Backfiller {
	if workers <= 0 {
		workers = DefaultBackfillWorkers
	}
	return &Backfiller{
		cache:     cache,
		gateway:   gateway,
		logger:    logger,
		workers:   workers,
		requested: make(map[string]bool),
	}
}

// Run resolves commit times for every saved record still missing one and
// blocks until the pool drains. Best-effort: it reports how many records
// were patched and never returns an error.
func (b *Backfiller) Run(ctx context.Context) int {
	paths := b.claim()
	if len(paths) == 0 {
		return 0
	}

	jobs := make(chan string)
	var patched int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				t := b.gateway.LastCommitTime(ctx, path)
				if t == nil {
					b.logger.Debug("commit time unresolved", "path", path)
					continue
				}
				// Patch is keyed by path, so a completion landing after the
				// user moved on cannot touch an unrelated record.
				if b.cache.Patch(path, RecordPatch{SavedAt: t}) {
					mu.Lock()
					patched++
					mu.Unlock()
				}
			}
		}()
	}

	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	b.logger.Debug("backfill complete", "requested", len(paths), "patched", patched)
	return patched
}

// claim collects saved records missing a timestamp and marks them requested.
func (b *Backfiller) claim() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var paths []string
	for _, rec := range b.cache.GetAll() {
		if rec.State.IsDraft() || rec.SavedAt != nil || b.requested[rec.Path] {
			continue
		}
		b.requested[rec.Path] = true
		paths = append(paths, rec.Path)
	}
	return paths
}
