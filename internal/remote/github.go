// Package remote provides repository backend implementations: the real
// GitHub REST client and an in-memory double used by tests and offline
// development.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mpage/internal/journal"
)

const defaultAPIBaseURL = "https://api.github.com"

// GitHubBackend implements journal.Backend over the GitHub contents,
// commits, user, and repos REST endpoints, authenticating every request
// with the supplied token.
type GitHubBackend struct {
	baseURL string
	token   string
	owner   string
	repo    string
	client  *http.Client
}

// NewGitHubBackend creates a backend for owner/repo. baseURL may be empty
// to use the public API; tests point it at a local server.
func NewGitHubBackend(baseURL, token, owner, repo string) *GitHubBackend {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &GitHubBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		owner:   owner,
		repo:    repo,
		client:  &http.Client{},
	}
}

// contentItem is the wire shape of a contents API item.
type contentItem struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
	Content     string `json:"content"`
}

func (it contentItem) toInfo() journal.ContentInfo {
	return journal.ContentInfo{
		Name:        it.Name,
		Path:        it.Path,
		SHA:         it.SHA,
		Type:        it.Type,
		DownloadURL: it.DownloadURL,
		Body:        it.Content,
	}
}

// List returns the directory listing at path. A 404 carrying GitHub's
// "This repository is empty" message normalizes to an empty listing; any
// other 404 is journal.ErrNotFound.
func (g *GitHubBackend) List(ctx context.Context, path string) ([]journal.ContentInfo, error) {
	body, err := g.get(ctx, g.contentsURL(path))
	if err != nil {
		if isEmptyRepo(err) {
			return nil, nil
		}
		return nil, err
	}

	// The contents endpoint returns an array for directories and an object
	// for files; tolerate both.
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var item contentItem
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, fmt.Errorf("decoding contents response: %w", err)
		}
		return []journal.ContentInfo{item.toInfo()}, nil
	}

	var items []contentItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decoding contents response: %w", err)
	}
	infos := make([]journal.ContentInfo, len(items))
	for i, it := range items {
		infos[i] = it.toInfo()
	}
	return infos, nil
}

// Get returns a single file's metadata with its base64 body.
func (g *GitHubBackend) Get(ctx context.Context, path string) (*journal.ContentInfo, error) {
	body, err := g.get(ctx, g.contentsURL(path))
	if err != nil {
		return nil, err
	}

	var item contentItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decoding file response: %w", err)
	}
	info := item.toInfo()
	return &info, nil
}

// putRequest is the wire shape of a contents API write.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA         string `json:"sha"`
		DownloadURL string `json:"download_url"`
	} `json:"content"`
}

// Put creates or updates a file. An empty sha creates; a stale sha fails
// the write via the backend's optimistic-concurrency check.
func (g *GitHubBackend) Put(ctx context.Context, path, message, base64Content, sha string) (*journal.PutResult, error) {
	payload, err := json.Marshal(putRequest{Message: message, Content: base64Content, SHA: sha})
	if err != nil {
		return nil, fmt.Errorf("encoding put request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := g.do(req)
	if err != nil {
		return nil, err
	}

	var res putResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding put response: %w", err)
	}
	return &journal.PutResult{SHA: res.Content.SHA, DownloadURL: res.Content.DownloadURL}, nil
}

// commitEntry is the wire shape of a commits API item.
type commitEntry struct {
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// Commits returns the commit history touching path, most recent first.
func (g *GitHubBackend) Commits(ctx context.Context, path string) ([]journal.Commit, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits?path=%s", g.baseURL, g.owner, g.repo, url.QueryEscape(path))
	body, err := g.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var entries []commitEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding commits response: %w", err)
	}
	commits := make([]journal.Commit, len(entries))
	for i, e := range entries {
		commits[i] = journal.Commit{CommittedAt: e.Commit.Committer.Date}
	}
	return commits, nil
}

// CurrentUser returns the login of the token's user.
func (g *GitHubBackend) CurrentUser(ctx context.Context) (string, error) {
	body, err := g.get(ctx, g.baseURL+"/user")
	if err != nil {
		return "", err
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decoding user response: %w", err)
	}
	if user.Login == "" {
		return "", fmt.Errorf("user response missing login")
	}
	return user.Login, nil
}

// CheckAccess verifies the repository is reachable with the token.
func (g *GitHubBackend) CheckAccess(ctx context.Context) error {
	_, err := g.get(ctx, fmt.Sprintf("%s/repos/%s/%s", g.baseURL, g.owner, g.repo))
	return err
}

// contentsURL builds a contents endpoint URL, escaping each path segment so
// non-ASCII folder names and titles survive the trip.
func (g *GitHubBackend) contentsURL(path string) string {
	escaped := ""
	if path != "" {
		segments := strings.Split(path, "/")
		for i, seg := range segments {
			segments[i] = url.PathEscape(seg)
		}
		escaped = "/" + strings.Join(segments, "/")
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents%s", g.baseURL, g.owner, g.repo, escaped)
}

func (g *GitHubBackend) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	return g.do(req)
}

func (g *GitHubBackend) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{
			Status: resp.StatusCode,
			URL:    req.URL.String(),
			Body:   string(body),
		}
	}
	return body, nil
}

// apiError carries the status and body of a failed API call.
type apiError struct {
	Status int
	URL    string
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("github api error: %d %s", e.Status, e.URL)
}

// Unwrap maps 404 responses to journal.ErrNotFound so callers can use
// errors.Is.
func (e *apiError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return journal.ErrNotFound
	}
	return nil
}

// isEmptyRepo detects GitHub's 404-with-"This repository is empty" answer
// for listings against a freshly created repository.
func isEmptyRepo(err error) bool {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound && strings.Contains(apiErr.Body, "This repository is empty")
}

var _ journal.Backend = (*GitHubBackend)(nil)
