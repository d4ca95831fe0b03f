package reconcile

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/metrics"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// DefaultDurationSeconds is used for import entries without a duration
const DefaultDurationSeconds = 30 * 60

// Dependencies are the collaborators of a Service. Repo and Metrics are
// optional.
type Dependencies struct {
	Activity *providers.Registry
	Ledger   providers.LedgerProvider
	Repo     storage.Repository
	Metrics  *metrics.Metrics
	Engine   *Engine
}

// Service fetches both sources, runs the engine, records runs and
// imports batches into the ledger
type Service struct {
	activity *providers.Registry
	ledger   providers.LedgerProvider
	repo     storage.Repository
	metrics  *metrics.Metrics
	engine   *Engine
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a service
func NewService(deps Dependencies, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Engine == nil {
		deps.Engine = NewEngine(DefaultEngineConfig())
	}
	return &Service{
		activity: deps.Activity,
		ledger:   deps.Ledger,
		repo:     deps.Repo,
		metrics:  deps.Metrics,
		engine:   deps.Engine,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Engine returns the service's engine
func (s *Service) Engine() *Engine {
	return s.engine
}

// RunOptions configures a reconciliation run
type RunOptions struct {
	Source    string // Activity provider name
	Window    worklog.Window
	Action    string // Optional action filter
	MaxEvents int
}

// RunResult is the outcome of a run
type RunResult struct {
	RunID      string
	Activity   *files.ActivityFile
	Ledger     *files.LedgerFile
	Comparison *Comparison
}

// ImportOptions configures an import
type ImportOptions struct {
	DryRun    bool
	ProjectID int64 // Overrides project name resolution when set
}

// ImportResult summarizes an import
type ImportResult struct {
	Created int
	Planned int // Entries a dry run would have created
	Skipped int
	Failed  int
	DryRun  bool
	Errors  []error
}
