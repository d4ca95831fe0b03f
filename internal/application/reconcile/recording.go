package reconcile

import (
	"log/slog"
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// Recording functions for the service. Storage failures are logged and
// never fail a run.

func (s *Service) startRun(run *storage.Run) {
	if s.repo == nil {
		return
	}
	if err := s.repo.StartRun(run); err != nil {
		s.logger.Error("failed to record run start", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) failRun(run *storage.Run, started time.Time, cause error) {
	if s.metrics != nil {
		s.metrics.RecordRun(run.ActivitySource, storage.RunStatusFailed, s.now().Sub(started).Seconds())
	}
	if s.repo == nil {
		return
	}
	if err := s.repo.FailRun(run.ID, cause.Error()); err != nil {
		s.logger.Error("failed to record run failure", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) completeRun(run *storage.Run, started time.Time, activity *files.ActivityFile, ledger *files.LedgerFile, c *Comparison) {
	summary := c.Result.Summary()
	if s.metrics != nil {
		s.metrics.RecordRun(run.ActivitySource, storage.RunStatusCompleted, s.now().Sub(started).Seconds())
		s.metrics.RecordRecords(string(matcher.StatusMatched), summary.Matched)
		s.metrics.RecordRecords(string(matcher.StatusMissing), summary.Missing)
		s.metrics.RecordRecords(string(matcher.StatusLedgerOnly), summary.LedgerOnly)
	}
	if s.repo == nil {
		return
	}

	if err := s.repo.SaveRecords(run.ID, toRunRecords(c.Result.Records())); err != nil {
		s.logger.Error("failed to save run records", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}

	batch := make([]*storage.ImportEntry, 0, len(c.Squashed))
	for _, e := range c.Squashed {
		batch = append(batch, &storage.ImportEntry{
			Description: e.Description,
			Start:       e.Start,
			Duration:    e.Duration,
			ProjectName: e.ProjectName,
			Tags:        e.Tags,
			Squashed:    true,
		})
	}
	if err := s.repo.SaveImportEntries(run.ID, batch); err != nil {
		s.logger.Error("failed to save import batch", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}

	counts := storage.RunCounts{
		TotalEvents:  len(activity.Events),
		TotalEntries: len(ledger.Entries),
		Matched:      summary.Matched,
		Missing:      summary.Missing,
		LedgerOnly:   summary.LedgerOnly,
	}
	if err := s.repo.CompleteRun(run.ID, counts); err != nil {
		s.logger.Error("failed to record run completion", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}
}

func toRunRecords(records []matcher.Record) []storage.RunRecord {
	out := make([]storage.RunRecord, 0, len(records))
	for _, r := range records {
		out = append(out, storage.RunRecord{
			Status:      string(r.Status),
			Date:        r.Date,
			TaskKey:     r.Key.String(),
			Description: r.Description,
			Project:     r.Project,
			Action:      r.Action,
			Target:      r.Details.Target,
			Duration:    r.Duration,
			Tags:        r.Tags,
		})
	}
	return out
}

func toSquashEntry(e storage.ImportEntry) squash.Entry {
	return squash.Entry{
		Description: e.Description,
		Start:       e.Start,
		Duration:    e.Duration,
		ProjectName: e.ProjectName,
		Tags:        e.Tags,
	}
}
