package journal

import (
	"strings"
	"time"
)

// RemoteState tells whether a record exists in the repository. A draft has
// never been written; a saved record carries the backend's opaque content
// version id, which doubles as the optimistic-concurrency token on update.
type RemoteState struct {
	versionID string
	persisted bool
}

// Draft returns the state of a record that has not been written yet.
func Draft() RemoteState { return RemoteState{} }

// Saved returns the state of a record persisted under the given version id.
func Saved(versionID string) RemoteState {
	return RemoteState{versionID: versionID, persisted: true}
}

// IsDraft reports whether the record has never been persisted.
func (s RemoteState) IsDraft() bool { return !s.persisted }

// VersionID returns the backend version id and whether one exists.
func (s RemoteState) VersionID() (string, bool) {
	return s.versionID, s.persisted
}

// FileRecord is one journal entry known to the client. Path is the unique
// cache key. Content and SavedAt are lazily resolved: nil means "not fetched
// yet", not "empty".
type FileRecord struct {
	Name        string
	Path        string
	State       RemoteState
	Content     *string
	SavedAt     *time.Time
	DownloadURL string
}

// RecordPatch is a partial update applied to a cached record. Nil fields are
// left untouched.
type RecordPatch struct {
	Name        *string
	State       *RemoteState
	Content     *string
	SavedAt     *time.Time
	DownloadURL *string
}

// apply merges the patch into a copy of the record.
func (p RecordPatch) apply(r FileRecord) FileRecord {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.State != nil {
		r.State = *p.State
	}
	if p.Content != nil {
		r.Content = p.Content
	}
	if p.SavedAt != nil {
		r.SavedAt = p.SavedAt
	}
	if p.DownloadURL != nil {
		r.DownloadURL = *p.DownloadURL
	}
	return r
}

// baseName returns the final segment of a repository path.
func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
