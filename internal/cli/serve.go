package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/api"
	"github.com/eshaffer321/worklog-reconcile/internal/application/service"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/logging"
)

// JobCleanupInterval is how often finished and stale jobs are swept
const JobCleanupInterval = 5 * time.Minute

// ServeFlags holds the flags of the serve command.
type ServeFlags struct {
	Port int // 0 = api.port from config
}

// NewAPIServer builds the API server over an App. Job and import endpoints
// are enabled only when a ledger is configured.
func NewAPIServer(app *App, flags ServeFlags) (*api.Server, *service.JobService, error) {
	if app.Repo == nil {
		return nil, nil, errors.New("serve requires storage to be enabled")
	}

	apiCfg := api.Config{
		Port:           app.Config.API.Port,
		AllowedOrigins: app.Config.API.AllowedOrigins,
	}
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}

	logger := app.Logger.With(logging.SystemKey, "api")
	deps := api.Dependencies{
		Repo:    app.Repo,
		Metrics: app.Metrics,
	}

	var jobs *service.JobService
	if app.Clients.Ledger != nil {
		jobs = service.NewJobService(app.Service, app.Clients.Activity.List(), logger)
		deps.Jobs = jobs
		deps.Importer = app.Service
	} else {
		logger.Warn("toggl is not configured, job and import endpoints are disabled")
	}

	return api.NewServer(apiCfg, deps, logger), jobs, nil
}

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(app *App, flags ServeFlags) error {
	server, jobs, err := NewAPIServer(app, flags)
	if err != nil {
		return err
	}
	logger := app.Logger

	if jobs != nil {
		jobs.StartBackgroundCleanup(JobCleanupInterval)
		defer jobs.StopBackgroundCleanup()
	}

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
