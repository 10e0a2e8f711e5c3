package journal

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"mpage/internal/datepath"
)

// Commit messages written by the client.
const (
	commitMsgSaveEntry   = "journal: 작성 완료"
	commitMsgUpdateStats = "chore: 통계 업데이트"
)

// StatsUpdater records that an entry was written on the given date. The
// gateway drives it as a best-effort side effect after entry saves.
type StatsUpdater interface {
	RecordWrite(ctx context.Context, date string) error
}

// Gateway performs file-level operations against the repository backend:
// listing, fetching, saving, and commit-history lookups. It owns the UTF-8
// safe base64 codec and the error-taxonomy wrapping; the Backend owns raw
// transport.
type Gateway struct {
	backend     Backend
	logger      Logger
	clock       Clock
	commitTimes CommitTimeCache // optional
	stats       StatsUpdater    // optional
}

// NewGateway creates a gateway over the given backend. commitTimes and
// stats may be nil; the corresponding features are then skipped.
func NewGateway(backend Backend, logger Logger, clock Clock, commitTimes CommitTimeCache, stats StatsUpdater) *Gateway {
	return &Gateway{
		backend:     backend,
		logger:      logger,
		clock:       clock,
		commitTimes: commitTimes,
		stats:       stats,
	}
}

// ListMarkdownFiles walks the repository from root and returns every
// date-patterned markdown entry as a saved record with unresolved content
// and timestamp. The reserved configuration directory is skipped. An empty
// repository yields an empty slice. Any listing failure surfaces as a
// single KindListLoadFailed error.
func (g *Gateway) ListMarkdownFiles(ctx context.Context, root string) ([]FileRecord, error) {
	var records []FileRecord

	// Iterative depth-first walk. The backend guarantees no ordering, and
	// none is needed here: the tree sort fixes order later.
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		items, err := g.backend.List(ctx, dir)
		if err != nil {
			g.logger.Error("listing repository contents", "path", dir, "error", err)
			return nil, newError(KindListLoadFailed, msgLoadFilesFailed, err)
		}

		for _, item := range items {
			if item.IsDir() {
				if item.Name == ReservedDir {
					continue
				}
				stack = append(stack, item.Path)
				continue
			}
			if !datepath.IsEntryName(item.Name) {
				continue
			}
			records = append(records, FileRecord{
				Name:        item.Name,
				Path:        item.Path,
				State:       Saved(item.SHA),
				DownloadURL: item.DownloadURL,
			})
		}
	}

	g.logger.Info("repository listed", "entries", len(records))
	return records, nil
}

// FetchContent fetches one file and decodes its base64 body to UTF-8 text.
func (g *Gateway) FetchContent(ctx context.Context, path string) (string, error) {
	info, err := g.backend.Get(ctx, path)
	if err != nil {
		g.logger.Error("fetching file content", "path", path, "error", err)
		return "", newError(KindContentLoadFailed, msgLoadFileFailed, err)
	}

	text, err := decodeBase64Text(info.Body)
	if err != nil {
		g.logger.Error("decoding file content", "path", path, "error", err)
		return "", newError(KindContentLoadFailed, msgLoadFileFailed, err)
	}
	return text, nil
}

// SaveResult is the outcome of a successful entry save.
type SaveResult struct {
	VersionID   string
	DownloadURL string
}

// Save writes content to path, creating or updating depending on whether
// state carries a version id. After a successful save to a date-patterned
// path the stats side effect runs best-effort: its failure never fails the
// save.
func (g *Gateway) Save(ctx context.Context, path, content string, state RemoteState) (*SaveResult, error) {
	sha, _ := state.VersionID()

	res, err := g.backend.Put(ctx, path, commitMsgSaveEntry, encodeBase64Text(content), sha)
	if err != nil {
		g.logger.Error("saving file", "path", path, "error", err)
		return nil, newError(KindSaveFailed, msgSaveFileFailed, err)
	}

	if g.stats != nil && datepath.IsEntryName(baseName(path)) {
		date := g.clock.Now().Format("2006-01-02")
		bestEffort(g.logger, "stats update", func() error {
			return g.stats.RecordWrite(ctx, date)
		})
	}

	g.logger.Info("file saved", "path", path)
	return &SaveResult{VersionID: res.SHA, DownloadURL: res.DownloadURL}, nil
}

// LastCommitTime returns the timestamp of the most recent commit touching
// path, or nil when no commit exists or the lookup fails. It never returns
// an error: callers treat nil as "unknown".
func (g *Gateway) LastCommitTime(ctx context.Context, path string) *time.Time {
	if g.commitTimes != nil {
		if t, ok, err := g.commitTimes.Get(path); err == nil && ok {
			return &t
		}
	}

	commits, err := g.backend.Commits(ctx, path)
	if err != nil {
		g.logger.Warn("fetching commit history", "path", path, "error", err)
		return nil
	}
	if len(commits) == 0 {
		return nil
	}

	t := commits[0].CommittedAt
	if g.commitTimes != nil {
		bestEffort(g.logger, "commit-time memo", func() error {
			return g.commitTimes.Put(path, t)
		})
	}
	return &t
}

// encodeBase64Text encodes UTF-8 text for the transport layer.
func encodeBase64Text(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// decodeBase64Text decodes a transport-layer base64 body into UTF-8 text.
// The GitHub API inserts newlines into the payload; strip all whitespace
// before decoding. Decoding bytes first and converting once keeps
// multi-byte characters intact.
func decodeBase64Text(body string) (string, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, body)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
