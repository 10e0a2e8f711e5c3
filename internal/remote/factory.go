package remote

import (
	"fmt"

	"mpage/internal/config"
	"mpage/internal/journal"
)

// NewBackendFromConfig creates a Backend implementation based on the remote
// config type. token is ignored for the memory backend.
func NewBackendFromConfig(cfg config.RemoteConfig, token string) (journal.Backend, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryBackend(journal.RealClock{}), nil
	case "", "github":
		if cfg.Owner == "" || cfg.Repo == "" {
			return nil, fmt.Errorf("github remote requires owner and repo to be set")
		}
		return NewGitHubBackend(cfg.APIBaseURL, token, cfg.Owner, cfg.Repo), nil
	default:
		return nil, fmt.Errorf("unknown remote type: %s", cfg.Type)
	}
}
