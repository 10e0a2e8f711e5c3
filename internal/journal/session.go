package journal

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"mpage/internal/datepath"
)

// EditorMode is the editor-surface state for the current selection.
type EditorMode int

const (
	// ModeEditable marks a fresh draft or an in-progress unsaved entry.
	ModeEditable EditorMode = iota
	// ModeReadOnly marks an entry that already has a remote version. Once
	// saved, an entry is never edited again.
	ModeReadOnly
)

func (m EditorMode) String() string {
	if m == ModeReadOnly {
		return "readOnly"
	}
	return "editable"
}

// Editing limits. MinSaveChars gates saving; the other two reject the edit
// outright.
const (
	MinSaveChars  = 1000
	MaxBodyChars  = 30000
	MaxTitleChars = 50
)

// immutableTitlePrefix captures everything up to and including the date
// segment of a title. That portion can never be edited.
var immutableTitlePrefix = regexp.MustCompile(`^.*?\d{4}-\d{2}-\d{2}`)

// Session orchestrates the editor lifecycle over one cache and gateway:
// startup resolution, selection, edit validation, and the editable to
// read-only transition on save. Safe for concurrent use; the editor surface
// reads its fields through a consistent snapshot.
type Session struct {
	cache   *Cache
	gateway *Gateway
	clock   Clock
	logger  Logger

	mu           sync.Mutex
	title        string
	content      string
	mode         EditorMode
	selectedPath string
	selected     FileRecord
	hasSelection bool
	lastSavedAt  *time.Time
	expanded     []string
	targetPath   string
	targetDate   string

	autosaveStop chan struct{}
}

// NewSession creates a session over the given cache and gateway.
func NewSession(cache *Cache, gateway *Gateway, clock Clock, logger Logger) *Session {
	return &Session{
		cache:   cache,
		gateway: gateway,
		clock:   clock,
		logger:  logger,
		mode:    ModeEditable,
	}
}

// EditorState is the UI-facing snapshot of the session.
type EditorState struct {
	Title           string
	Content         string
	CanSave         bool
	Mode            EditorMode
	SelectedPath    string
	LastSavedAt     *time.Time
	ExpandedFolders []string
	TargetPath      string // today's (or the requested date's) entry path
	TargetDate      string // its ISO date
}

// State returns a consistent snapshot of the editor-facing fields.
func (s *Session) State() EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EditorState{
		Title:           s.title,
		Content:         s.content,
		CanSave:         s.canSaveLocked(),
		Mode:            s.mode,
		SelectedPath:    s.selectedPath,
		LastSavedAt:     s.lastSavedAt,
		ExpandedFolders: append([]string(nil), s.expanded...),
		TargetPath:      s.targetPath,
		TargetDate:      s.targetDate,
	}
}

// FileTree derives the renderable tree from the current cache contents.
func (s *Session) FileTree() []*TreeNode {
	return SortDescending(BuildTree(s.cache.GetAll()))
}

// Startup loads the repository listing if the cache is empty, resolves the
// entry for dateStr (or today when empty), synthesizing a draft when none
// exists, and selects it. A listing failure is fatal and surfaces as
// KindListLoadFailed.
func (s *Session) Startup(ctx context.Context, dateStr string) error {
	if s.cache.Len() == 0 {
		records, err := s.gateway.ListMarkdownFiles(ctx, "")
		if err != nil {
			return err
		}
		s.cache.ReplaceAll(records)
	}

	day := s.clock.Now()
	if dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, day.Location())
		if err != nil {
			return rejectEdit(msgInvalidDateFormat)
		}
		day = parsed
	}

	loc := datepath.ForDate(day)

	s.mu.Lock()
	s.expanded = []string{loc.MonthFolder, loc.MonthFolder + "/" + loc.WeekFolder}
	s.targetPath = loc.Path
	s.targetDate = loc.ISODate
	s.mu.Unlock()

	rec, ok := s.cache.FindByDatePrefix(loc.ISODate)
	if !ok {
		rec = FileRecord{
			Name:  loc.ISODate + ".md",
			Path:  loc.Path,
			State: Draft(),
		}
		s.cache.Upsert(rec)
		s.logger.Info("draft created", "path", rec.Path)
	}

	return s.Select(ctx, rec.Path)
}

// Select makes the record at path the current editor target. Drafts open
// editable and empty. Saved entries open read-only, resolving content and
// commit time from the cache or, for exactly the missing fields, from the
// gateway in parallel. A content fetch failure leaves the previous
// selection in place and surfaces as KindContentLoadFailed.
func (s *Session) Select(ctx context.Context, path string) error {
	rec, ok := s.cache.Get(path)
	if !ok {
		return newError(KindContentLoadFailed, msgLoadFileFailed, nil)
	}

	if rec.State.IsDraft() {
		s.mu.Lock()
		s.setSelectionLocked(rec, ModeEditable, datepath.HumanizeTitle(rec.Path)+" ", "", nil)
		s.mu.Unlock()
		return nil
	}

	needContent := rec.Content == nil
	needSavedAt := rec.SavedAt == nil

	if needContent || needSavedAt {
		var wg sync.WaitGroup
		var contentErr error

		if needContent {
			wg.Add(1)
			go func() {
				defer wg.Done()
				text, err := s.gateway.FetchContent(ctx, path)
				if err != nil {
					contentErr = err
					return
				}
				s.cache.Patch(path, RecordPatch{Content: &text})
			}()
		}
		if needSavedAt {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if t := s.gateway.LastCommitTime(ctx, path); t != nil {
					s.cache.Patch(path, RecordPatch{SavedAt: t})
				}
			}()
		}
		wg.Wait()

		if contentErr != nil {
			// Recoverable: the previous selection stays in place.
			return contentErr
		}
		rec, _ = s.cache.Get(path)
	}

	content := ""
	if rec.Content != nil {
		content = *rec.Content
	}

	s.mu.Lock()
	s.setSelectionLocked(rec, ModeReadOnly, datepath.HumanizeTitle(rec.Path), content, rec.SavedAt)
	s.mu.Unlock()
	return nil
}

// setSelectionLocked installs a new selection. Leaving ModeEditable stops a
// pending auto-save countdown.
func (s *Session) setSelectionLocked(rec FileRecord, mode EditorMode, title, content string, savedAt *time.Time) {
	s.selected = rec
	s.selectedPath = rec.Path
	s.hasSelection = true
	s.mode = mode
	s.title = title
	s.content = content
	s.lastSavedAt = savedAt
	if mode != ModeEditable {
		s.stopAutosaveLocked()
	}
}

// SetTitle applies a title edit. The segment up to and including the date
// prefix is immutable; the free portion after it is limited to
// MaxTitleChars characters.
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeEditable {
		return rejectEdit(msgReadOnlyEntry)
	}

	prefix := immutableTitlePrefix.FindString(s.title)
	if prefix != "" && !strings.HasPrefix(title, prefix) {
		return rejectEdit(msgTitlePrefix)
	}

	free := strings.TrimSpace(strings.TrimPrefix(title, prefix))
	if utf8.RuneCountInString(free) > MaxTitleChars {
		return rejectEdit(msgTitleTooLong)
	}

	s.title = title
	return nil
}

// SetContent applies a body edit. Shrinking the body is rejected: what is
// written cannot be unwritten. Oversized bodies are rejected before being
// applied.
func (s *Session) SetContent(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeEditable {
		return rejectEdit(msgReadOnlyEntry)
	}
	if utf8.RuneCountInString(content) < utf8.RuneCountInString(s.content) {
		return rejectEdit(msgDeleteText)
	}
	if utf8.RuneCountInString(content) > MaxBodyChars {
		return rejectEdit(msgBodyTooLong)
	}

	s.content = content
	return nil
}

// Append adds text to the end of the body, the one edit that can never
// shrink it.
func (s *Session) Append(text string) error {
	s.mu.Lock()
	current := s.content
	s.mu.Unlock()
	return s.SetContent(current + text)
}

// CanSave reports whether the entry is long enough to save and still
// editable.
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSaveLocked()
}

func (s *Session) canSaveLocked() bool {
	return s.mode == ModeEditable && utf8.RuneCountInString(s.content) >= MinSaveChars
}

// Save writes the current entry. The final path derives from the trimmed
// title; when it differs from the draft path the old cache entry is
// replaced by the new one. On success the entry becomes read-only. On
// failure the cache is dropped so the next startup re-fetches everything
// from the remote source of truth, and the error surfaces as
// KindSaveFailed.
func (s *Session) Save(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !s.hasSelection || s.mode != ModeEditable {
		s.mu.Unlock()
		return rejectEdit(msgReadOnlyEntry)
	}
	if !force && !s.canSaveLocked() {
		s.mu.Unlock()
		return rejectEdit(msgNotEnoughContent)
	}
	title := strings.TrimSpace(s.title)
	content := s.content
	prev := s.selected
	s.mu.Unlock()

	finalPath := title + ".md"

	res, err := s.gateway.Save(ctx, finalPath, content, prev.State)
	if err != nil {
		// Partial-save failure is unrecoverable locally. Drop the cache so
		// correctness is re-established from the remote on reload.
		s.logger.Error("save failed, forcing reload", "path", finalPath, "error", err)
		s.cache.ReplaceAll(nil)
		return err
	}

	now := s.clock.Now()
	saved := FileRecord{
		Name:        baseName(finalPath),
		Path:        finalPath,
		State:       Saved(res.VersionID),
		Content:     &content,
		SavedAt:     &now,
		DownloadURL: res.DownloadURL,
	}

	if prev.Path != finalPath {
		s.cache.Remove(prev.Path)
	}
	s.cache.Upsert(saved)

	s.mu.Lock()
	s.setSelectionLocked(saved, ModeReadOnly, datepath.HumanizeTitle(finalPath), content, &now)
	s.mu.Unlock()

	s.logger.Info("entry saved", "path", finalPath)
	return nil
}

// StartAutosave arms a wall-clock countdown that force-saves the entry if
// it is still editable when the countdown elapses. The returned stop
// function disarms it; leaving ModeEditable disarms it as well.
func (s *Session) StartAutosave(ctx context.Context, d time.Duration) (stop func()) {
	s.mu.Lock()
	s.stopAutosaveLocked()
	ch := make(chan struct{})
	s.autosaveStop = ch
	s.mu.Unlock()

	timer := time.NewTimer(d)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			if s.Mode() == ModeEditable {
				if err := s.Save(ctx, true); err != nil {
					s.logger.Warn("autosave failed", "error", err)
				}
			}
		case <-ch:
		case <-ctx.Done():
		}
	}()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.autosaveStop == ch {
			s.stopAutosaveLocked()
		}
	}
}

func (s *Session) stopAutosaveLocked() {
	if s.autosaveStop != nil {
		close(s.autosaveStop)
		s.autosaveStop = nil
	}
}

// Mode returns the current editor mode.
func (s *Session) Mode() EditorMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}
