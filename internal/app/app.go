package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"mpage/internal/commitcache"
	"mpage/internal/config"
	"mpage/internal/journal"
	"mpage/internal/remote"
)

// MPApp is the application layer between the CLI and the journal services.
// It constructs all dependencies from config, exposes high-level operations
// for the commands, and releases resources on Close.
type MPApp struct {
	cfg         *config.Config
	backend     journal.Backend
	commitCache journal.CommitTimeCache
	cache       *journal.Cache
	gateway     *journal.Gateway
	stats       *journal.StatsKeeper
	favorites   *journal.Favorites
	morning     *journal.MorningTime
	session     *journal.Session
	backfiller  *journal.Backfiller
	logger      journal.Logger
	logFile     *os.File
}

// NewMPApp creates a fully wired MPApp from the given config and access
// token. operation identifies the CLI command being run (e.g. "Open",
// "Heatmap"). The caller must call Close when done.
func NewMPApp(cfg *config.Config, operation string, token string) (*MPApp, error) {
	backend, err := remote.NewBackendFromConfig(cfg.Remote, token)
	if err != nil {
		return nil, fmt.Errorf("creating backend: %w", err)
	}

	memo, err := commitcache.NewFromConfig(cfg.CommitCache)
	if err != nil {
		return nil, fmt.Errorf("creating commit cache: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		if memo != nil {
			memo.Close()
		}
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	stats := journal.NewStatsKeeper(backend, logger)
	gateway := journal.NewGateway(backend, logger, journal.RealClock{}, memo, stats)
	cache := journal.NewCache()
	session := journal.NewSession(cache, gateway, journal.RealClock{}, logger)

	return &MPApp{
		cfg:         cfg,
		backend:     backend,
		commitCache: memo,
		cache:       cache,
		gateway:     gateway,
		stats:       stats,
		favorites:   journal.NewFavorites(backend, logger),
		morning:     journal.NewMorningTime(backend, logger),
		session:     session,
		backfiller:  journal.NewBackfiller(cache, gateway, logger, journal.DefaultBackfillWorkers),
		logger:      logger,
		logFile:     logFile,
	}, nil
}

// Session returns the editor session for direct state inspection.
func (a *MPApp) Session() *journal.Session { return a.session }

// AutosaveInterval returns the configured autosave countdown, or zero when
// the countdown is disabled.
func (a *MPApp) AutosaveInterval() time.Duration {
	return time.Duration(a.cfg.Editor.AutosaveMinutes) * time.Minute
}

// Open loads the file list and selects the entry for the given date
// (today when dateStr is empty), synthesizing a draft when none exists.
func (a *MPApp) Open(ctx context.Context, dateStr string) error {
	return a.session.Startup(ctx, dateStr)
}

// Select switches the editor to the given path.
func (a *MPApp) Select(ctx context.Context, path string) error {
	return a.session.Select(ctx, path)
}

// FileTree returns the current folder tree, newest first.
func (a *MPApp) FileTree() []*journal.TreeNode {
	return a.session.FileTree()
}

// Heatmap backfills missing commit times and derives the heatmap cells for
// every dated entry in the cache. Entries whose commit time could not be
// fetched render gray.
func (a *MPApp) Heatmap(ctx context.Context) []journal.HeatmapCell {
	windows, _, err := a.morning.Load(ctx)
	if err != nil && !journal.IsKind(err, journal.KindConfigNotFound) {
		a.logger.Warn("loading morning time config", "error", err)
	}

	a.backfiller.Run(ctx)
	return journal.BuildHeatmapData(a.cache.GetAll(), windows)
}

// Stats returns the current writing statistics from the repository.
func (a *MPApp) Stats(ctx context.Context) (journal.StatsSnapshot, error) {
	snapshot, _, err := a.stats.Load(ctx)
	return snapshot, err
}

// AddFavorite marks the given cached entry as a favorite.
func (a *MPApp) AddFavorite(ctx context.Context, path string) error {
	return a.favorites.Add(ctx, a.cache, path)
}

// RemoveFavorite removes the given path from the favorites list.
func (a *MPApp) RemoveFavorite(ctx context.Context, path string) error {
	return a.favorites.Remove(ctx, path)
}

// ListFavorites returns the favorite entry paths.
func (a *MPApp) ListFavorites(ctx context.Context) ([]string, error) {
	return a.favorites.List(ctx)
}

// MorningTime returns the configured heatmap time windows, or nil when none
// are configured.
func (a *MPApp) MorningTime(ctx context.Context) (*journal.TimeWindows, error) {
	windows, _, err := a.morning.Load(ctx)
	if journal.IsKind(err, journal.KindConfigNotFound) {
		return nil, nil
	}
	return windows, err
}

// SetMorningTime writes the heatmap time windows to the repository.
func (a *MPApp) SetMorningTime(ctx context.Context, windows journal.TimeWindows) error {
	_, sha, err := a.morning.Load(ctx)
	if err != nil && !journal.IsKind(err, journal.KindConfigNotFound) {
		return err
	}
	return a.morning.Save(ctx, windows, sha)
}

// ValidateAccess checks that the token can see the configured repository
// and returns the authenticated login.
func (a *MPApp) ValidateAccess(ctx context.Context) (string, error) {
	login, err := a.backend.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("verifying token: %w", err)
	}
	if err := a.backend.CheckAccess(ctx); err != nil {
		return "", fmt.Errorf("verifying repository access: %w", err)
	}
	return login, nil
}

// Close releases the commit cache and the log file.
func (a *MPApp) Close() error {
	var firstErr error

	if a.commitCache != nil {
		if err := a.commitCache.Close(); err != nil {
			firstErr = fmt.Errorf("closing commit cache: %w", err)
		}
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
