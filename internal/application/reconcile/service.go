package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// Compare runs the engine on loaded files
func (s *Service) Compare(activity *files.ActivityFile, ledger *files.LedgerFile) *Comparison {
	return s.engine.Compare(activity, ledger)
}

// Run fetches both sources for the window, compares them and records the
// run when storage is configured
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	started := s.now()
	run := &storage.Run{
		ID:             s.newID(),
		ActivitySource: opts.Source,
		LedgerSource:   s.ledger.Name(),
		PeriodStart:    opts.Window.Period().Start,
		PeriodEnd:      opts.Window.Period().End,
		StartedAt:      started.UTC(),
	}
	s.startRun(run)

	logger := s.logger.With(slog.String("run_id", run.ID), slog.String("source", opts.Source))
	logger.Info("starting reconciliation",
		slog.String("period_start", run.PeriodStart),
		slog.String("period_end", run.PeriodEnd))

	activity, err := s.FetchActivity(ctx, opts.Source, opts.Window, opts.Action, opts.MaxEvents)
	if err != nil {
		s.failRun(run, started, err)
		return nil, err
	}

	ledger, err := s.FetchLedger(ctx, opts.Window)
	if err != nil {
		s.failRun(run, started, err)
		return nil, err
	}

	comparison := s.engine.Compare(activity, ledger)
	s.completeRun(run, started, activity, ledger, comparison)

	summary := comparison.Result.Summary()
	logger.Info("reconciliation complete",
		slog.Int("matched", summary.Matched),
		slog.Int("missing", summary.Missing),
		slog.Int("ledger_only", summary.LedgerOnly),
		slog.Int("consumed", summary.Consumed),
		slog.Int("import_entries", len(comparison.Squashed)))

	return &RunResult{
		RunID:      run.ID,
		Activity:   activity,
		Ledger:     ledger,
		Comparison: comparison,
	}, nil
}

// ImportRun imports the stored batch of a run, skipping entries that were
// already imported
func (s *Service) ImportRun(ctx context.Context, runID string, opts ImportOptions) (*ImportResult, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("storage is disabled")
	}
	stored, err := s.repo.ListImportEntries(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load import batch: %w", err)
	}

	batch := make([]pending, 0, len(stored))
	for _, e := range stored {
		if e.ImportedAt != nil {
			continue
		}
		batch = append(batch, pending{entry: toSquashEntry(e), storedID: e.ID})
	}
	return s.importBatch(ctx, batch, opts)
}
