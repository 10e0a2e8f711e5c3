package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mpage/internal/journal"
)

// MemoryBackend is an in-memory implementation of journal.Backend. It keeps
// whole files and per-path commit histories in maps, enforces the same
// version-id optimistic-concurrency check as the real API, and supports
// fault injection. Safe for concurrent use.
type MemoryBackend struct {
	mu      sync.RWMutex
	files   map[string]memoryFile
	commits map[string][]time.Time
	clock   journal.Clock
	seq     int
	user    string

	// Fault injection: when set, the corresponding operation fails with
	// this error.
	FailList    error
	FailGet     error
	FailPut     error
	FailCommits error
}

type memoryFile struct {
	content []byte
	sha     string
}

// NewMemoryBackend creates an empty in-memory repository. clock stamps
// commits; pass a stub in tests for deterministic histories.
func NewMemoryBackend(clock journal.Clock) *MemoryBackend {
	if clock == nil {
		clock = journal.RealClock{}
	}
	return &MemoryBackend{
		files:   make(map[string]memoryFile),
		commits: make(map[string][]time.Time),
		clock:   clock,
		user:    "memory-user",
	}
}

// Seed inserts a file with a commit stamped at committedAt, bypassing the
// concurrency check. Test setup helper.
func (m *MemoryBackend) Seed(path, content string, committedAt time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	sha := fmt.Sprintf("sha-%d", m.seq)
	m.files[path] = memoryFile{content: []byte(content), sha: sha}
	m.commits[path] = append(m.commits[path], committedAt)
	return sha
}

// List returns the immediate children of dir: files stored directly under
// it and synthesized directory entries for deeper paths. An empty
// repository yields an empty listing.
func (m *MemoryBackend) List(_ context.Context, dir string) ([]journal.ContentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailList != nil {
		return nil, m.FailList
	}

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	var infos []journal.ContentInfo
	seenDirs := make(map[string]bool)

	for path, f := range m.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			name := rest[:i]
			if !seenDirs[name] {
				seenDirs[name] = true
				infos = append(infos, journal.ContentInfo{
					Name: name,
					Path: prefix + name,
					Type: "dir",
				})
			}
			continue
		}
		infos = append(infos, journal.ContentInfo{
			Name:        rest,
			Path:        path,
			SHA:         f.sha,
			Type:        "file",
			DownloadURL: "memory://" + path,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// Get returns a single file with its base64 body.
func (m *MemoryBackend) Get(_ context.Context, path string) (*journal.ContentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailGet != nil {
		return nil, m.FailGet
	}

	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, journal.ErrNotFound)
	}
	return &journal.ContentInfo{
		Name:        baseName(path),
		Path:        path,
		SHA:         f.sha,
		Type:        "file",
		DownloadURL: "memory://" + path,
		Body:        base64.StdEncoding.EncodeToString(f.content),
	}, nil
}

// Put creates or updates a file, enforcing the version-id check: creates
// require no sha, updates require the current one.
func (m *MemoryBackend) Put(_ context.Context, path, _ string, base64Content, sha string) (*journal.PutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPut != nil {
		return nil, m.FailPut
	}

	content, err := base64.StdEncoding.DecodeString(base64Content)
	if err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}

	existing, exists := m.files[path]
	switch {
	case exists && sha != existing.sha:
		return nil, fmt.Errorf("version mismatch for %s: have %s, got %s", path, existing.sha, sha)
	case !exists && sha != "":
		return nil, fmt.Errorf("%s: %w", path, journal.ErrNotFound)
	}

	m.seq++
	newSHA := fmt.Sprintf("sha-%d", m.seq)
	m.files[path] = memoryFile{content: content, sha: newSHA}
	m.commits[path] = append(m.commits[path], m.clock.Now())

	return &journal.PutResult{SHA: newSHA, DownloadURL: "memory://" + path}, nil
}

// Commits returns the path's commit history, most recent first. A path with
// no history yields an empty slice.
func (m *MemoryBackend) Commits(_ context.Context, path string) ([]journal.Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailCommits != nil {
		return nil, m.FailCommits
	}

	times := m.commits[path]
	commits := make([]journal.Commit, 0, len(times))
	for i := len(times) - 1; i >= 0; i-- {
		commits = append(commits, journal.Commit{CommittedAt: times[i]})
	}
	return commits, nil
}

// CurrentUser returns the fixed in-memory user login.
func (m *MemoryBackend) CurrentUser(context.Context) (string, error) {
	return m.user, nil
}

// CheckAccess always succeeds for the in-memory repository.
func (m *MemoryBackend) CheckAccess(context.Context) error { return nil }

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

var _ journal.Backend = (*MemoryBackend)(nil)
