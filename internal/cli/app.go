package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/clients"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/config"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/metrics"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// App holds what every command needs: configuration, providers, storage
// and the reconcile service built over them
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clients *clients.Clients
	Repo    storage.Repository // nil when storage is disabled
	Metrics *metrics.Metrics
	Service *reconcile.Service
}

// NewApp wires an App from configuration. The caller must Close it.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	engineConfig, err := NewEngineConfig(cfg.Reconcile)
	if err != nil {
		return nil, err
	}

	c, err := clients.NewClients(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Clients: c,
		Metrics: metrics.New(),
	}

	deps := reconcile.Dependencies{
		Activity: c.Activity,
		Ledger:   c.Ledger,
		Metrics:  app.Metrics,
		Engine:   reconcile.NewEngine(engineConfig),
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", cfg.Storage.DatabasePath, err)
		}
		app.Repo = store
		deps.Repo = store
	}

	app.Service = reconcile.NewService(deps, logger)
	return app, nil
}

// Close releases the database
func (a *App) Close() error {
	if a.Repo == nil {
		return nil
	}
	return a.Repo.Close()
}

// NewEngineConfig maps the reconcile section onto the engine
func NewEngineConfig(cfg config.ReconcileConfig) (reconcile.EngineConfig, error) {
	engine := reconcile.DefaultEngineConfig()

	switch strings.ToLower(cfg.Consumption) {
	case "", "bucket":
		engine.Matcher.Consumption = matcher.ConsumeBucket
	case "one":
		engine.Matcher.Consumption = matcher.ConsumeOne
	default:
		return engine, fmt.Errorf("invalid consumption %q: must be bucket or one", cfg.Consumption)
	}

	engine.Squash = squash.Config{
		UnitSeconds: cfg.UnitSeconds,
		SourceTag:   cfg.SourceTag,
	}
	return engine, nil
}
