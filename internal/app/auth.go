package app

import (
	"fmt"
	"regexp"
	"strings"
)

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// ParseRepoURL extracts the owner and repository name from a GitHub
// repository URL. Accepts https URLs with or without a trailing .git
// suffix, e.g. https://github.com/alice/journal.git.
func ParseRepoURL(rawURL string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", fmt.Errorf("not a GitHub repository URL: %s", rawURL)
	}

	owner = m[1]
	repo = strings.TrimSuffix(m[2], ".git")
	repo = strings.TrimSuffix(repo, "/")
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("not a GitHub repository URL: %s", rawURL)
	}

	return owner, repo, nil
}
