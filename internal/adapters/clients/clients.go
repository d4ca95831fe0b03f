package clients

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers/github"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers/gitlab"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers/toggl"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/config"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/logging"
)

// ErrLedgerNotConfigured is returned by RequireLedger when no Toggl
// credentials were configured.
var ErrLedgerNotConfigured = errors.New("ledger is not configured")

// Clients holds the providers built from configuration. Activity providers
// are registered only when their token is set. Ledger is nil without Toggl
// credentials.
type Clients struct {
	Activity *providers.Registry
	Ledger   providers.LedgerProvider
}

// NewClients builds every provider the configuration has credentials for
func NewClients(cfg *config.Config, logger *slog.Logger) (*Clients, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := providers.NewRegistry(logger)

	if cfg.RequireGitLab() == nil {
		p, err := gitlab.NewProvider(cfg.GitLab.URL, cfg.GitLab.Token, logger.With(logging.SystemKey, "gitlab"))
		if err != nil {
			return nil, fmt.Errorf("failed to create gitlab provider: %w", err)
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}

	if cfg.RequireGitHub() == nil {
		p, err := github.NewProvider(github.Options{
			Token:   cfg.GitHub.Token,
			BaseURL: cfg.GitHub.BaseURL,
			User:    cfg.GitHub.User,
		}, logger.With(logging.SystemKey, "github"))
		if err != nil {
			return nil, fmt.Errorf("failed to create github provider: %w", err)
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}

	c := &Clients{Activity: registry}

	if cfg.RequireToggl() == nil {
		togglLogger := logger.With(logging.SystemKey, "toggl")
		client := toggl.NewClient(cfg.Toggl.APIToken, toggl.ClientOptions{
			BaseURL:           cfg.Toggl.BaseURL,
			RequestsPerSecond: cfg.Toggl.RequestsPerSecond,
			MaxRetries:        cfg.Toggl.MaxRetries,
			Logger:            togglLogger,
		})
		ledger, err := toggl.NewProvider(client, cfg.Toggl.WorkspaceID, togglLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create toggl provider: %w", err)
		}
		c.Ledger = ledger
	}

	return c, nil
}

// RequireActivity returns the named activity provider or an error naming
// the missing credential
func (c *Clients) RequireActivity(source string) (providers.ActivityProvider, error) {
	p, err := c.Activity.Get(source)
	if err == nil {
		return p, nil
	}
	switch source {
	case "gitlab":
		return nil, config.ErrMissingGitLabToken
	case "github":
		return nil, config.ErrMissingGitHubToken
	}
	return nil, err
}

// RequireLedger returns an error when no ledger is configured
func (c *Clients) RequireLedger(cfg *config.Config) error {
	if c.Ledger != nil {
		return nil
	}
	if err := cfg.RequireToggl(); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerNotConfigured, err)
	}
	return ErrLedgerNotConfigured
}
