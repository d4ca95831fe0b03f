package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/worklog-reconcile/internal/api/handlers"
	"github.com/eshaffer321/worklog-reconcile/internal/api/middleware"
	"github.com/eshaffer321/worklog-reconcile/internal/application/service"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/config"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/metrics"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Dependencies are the collaborators of the server. Only Repo is required;
// job and import endpoints are mounted when Jobs and Importer are set.
type Dependencies struct {
	Repo     storage.Repository
	Jobs     *service.JobService
	Importer handlers.Importer
	Metrics  *metrics.Metrics
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	deps       Dependencies
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps Dependencies, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		deps:   deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfigFromAPI(config.APIConfig{AllowedOrigins: s.config.AllowedOrigins})
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
	if s.deps.Metrics != nil {
		s.router.Use(middleware.Metrics(s.deps.Metrics))
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	if s.deps.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		// Recorded runs
		runsHandler := handlers.NewRunsHandler(s.deps.Repo, s.deps.Importer)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)
		r.Get("/runs/{id}/records", runsHandler.Records)
		r.Get("/runs/{id}/import", runsHandler.ImportBatch)
		r.Post("/runs/{id}/import", runsHandler.Import)

		// Ledger snapshots
		snapshotsHandler := handlers.NewSnapshotsHandler(s.deps.Repo)
		r.Get("/snapshots", snapshotsHandler.List)
		r.Get("/snapshots/diff", snapshotsHandler.Diff)
		r.Get("/snapshots/{id}", snapshotsHandler.Get)

		// Background run jobs
		if s.deps.Jobs != nil {
			jobsHandler := handlers.NewJobsHandler(s.deps.Jobs)
			r.Post("/jobs", jobsHandler.Start)
			r.Get("/jobs", jobsHandler.List)
			r.Get("/jobs/{jobId}", jobsHandler.Get)
			r.Delete("/jobs/{jobId}", jobsHandler.Cancel)
		}
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
