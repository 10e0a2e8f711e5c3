package journal

import (
	"context"
	"errors"
	"time"
)

// ReservedDir is the repository directory holding the client's own
// configuration documents. It is excluded from entry listings.
const ReservedDir = ".morningpage"

// Reserved document paths inside ReservedDir.
const (
	StatsDocPath       = ReservedDir + "/stats.json"
	FavoritesDocPath   = ReservedDir + "/favorites.json"
	MorningTimeDocPath = ReservedDir + "/morning-time.json"
)

// ErrNotFound is returned by Backend implementations when a path does not
// exist in the repository.
var ErrNotFound = errors.New("not found")

// ContentInfo is one item of a repository contents listing, or a single
// file's metadata. Body is the transport-layer base64 payload and is only
// populated on single-file gets.
type ContentInfo struct {
	Name        string
	Path        string
	SHA         string
	Type        string // "file" or "dir"
	DownloadURL string
	Body        string
}

// IsDir reports whether the item is a directory.
func (c ContentInfo) IsDir() bool { return c.Type == "dir" }

// PutResult is the outcome of a successful write.
type PutResult struct {
	SHA         string
	DownloadURL string
}

// Commit is one entry of a path's commit history.
type Commit struct {
	CommittedAt time.Time
}

// Backend is the repository backend collaborator: the minimal contents,
// commits, and access-check surface of the GitHub REST API. Implementations
// own transport concerns (auth headers, timeouts, retries); this layer owns
// none of them.
//
// List returns an empty slice, not an error, for an empty repository.
// Get, Put, and Commits return ErrNotFound (possibly wrapped) when the path
// does not exist.
type Backend interface {
	// List returns the directory listing at path ("" for the root).
	List(ctx context.Context, path string) ([]ContentInfo, error)

	// Get returns a single file's metadata with its base64 body.
	Get(ctx context.Context, path string) (*ContentInfo, error)

	// Put creates or updates a file. sha must be the current version id for
	// updates and empty for creates; a stale sha fails the write.
	Put(ctx context.Context, path, message, base64Content, sha string) (*PutResult, error)

	// Commits returns the commit history touching path, most recent first.
	Commits(ctx context.Context, path string) ([]Commit, error)

	// CurrentUser returns the login of the authenticated user.
	CurrentUser(ctx context.Context) (string, error)

	// CheckAccess verifies that the configured repository is reachable with
	// the supplied credentials.
	CheckAccess(ctx context.Context) error
}

// CommitTimeCache memoizes last-commit-time lookups across runs. It is a
// pure accelerator: both sides are best-effort and the remote stays the
// source of truth.
type CommitTimeCache interface {
	Get(path string) (time.Time, bool, error)
	Put(path string, t time.Time) error
	Close() error
}
