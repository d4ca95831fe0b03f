package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Import result labels used for metrics
const (
	importCreated = "created"
	importSkipped = "skipped"
	importFailed  = "failed"
	importDryRun  = "dry_run"
)

// pending is an entry waiting to be imported. storedID is the storage ID
// of entries loaded from a recorded run, zero otherwise.
type pending struct {
	entry    squash.Entry
	storedID int64
}

func (p pending) stored() bool { return p.storedID != 0 }

// Import creates the entries of an import source in the ledger
func (s *Service) Import(ctx context.Context, src *files.ImportSource, opts ImportOptions) (*ImportResult, error) {
	entries := s.engine.ImportEntries(src)
	batch := make([]pending, 0, len(entries))
	for _, e := range entries {
		batch = append(batch, pending{entry: e})
	}
	return s.importBatch(ctx, batch, opts)
}

func (s *Service) importBatch(ctx context.Context, batch []pending, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{DryRun: opts.DryRun}

	var projects map[string]int64
	if opts.ProjectID == 0 && !opts.DryRun {
		var err error
		if projects, err = s.projectIDs(ctx); err != nil {
			return nil, err
		}
	}

	for _, p := range batch {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e := p.entry
		if e.Description == "" || e.Start == "" {
			s.count(result, importSkipped)
			continue
		}
		start, err := worklog.ParseTimestamp(e.Start)
		if err != nil {
			s.logger.Warn("skipping entry with unparseable start",
				slog.String("description", e.Description),
				slog.String("start", e.Start))
			s.count(result, importSkipped)
			continue
		}

		duration := e.Duration
		if duration <= 0 {
			duration = DefaultDurationSeconds
		}

		if opts.DryRun {
			s.logger.Info("would create entry",
				slog.String("description", e.Description),
				slog.String("start", e.Start),
				slog.Int("duration", duration))
			s.count(result, importDryRun)
			continue
		}

		projectID := opts.ProjectID
		if projectID == 0 {
			projectID = projects[strings.ToLower(e.ProjectName)]
		}

		if p.stored() {
			claimed, err := s.repo.ClaimImportEntry(p.storedID)
			if err != nil {
				s.logger.Error("failed to claim entry", slog.Int64("entry_id", p.storedID), slog.String("error", err.Error()))
				result.Errors = append(result.Errors, err)
				s.count(result, importFailed)
				continue
			}
			if !claimed {
				s.logger.Info("entry already imported or being imported",
					slog.Int64("entry_id", p.storedID),
					slog.String("description", e.Description))
				s.count(result, importSkipped)
				continue
			}
		}

		id, err := s.ledger.CreateEntry(ctx, providers.NewEntry{
			Description: e.Description,
			ProjectID:   projectID,
			Start:       start,
			Duration:    duration,
			Tags:        e.Tags,
		})
		if err != nil {
			s.logger.Error("failed to create entry",
				slog.String("description", e.Description),
				slog.String("error", err.Error()))
			result.Errors = append(result.Errors, err)
			s.count(result, importFailed)
			if p.stored() {
				if err := s.repo.ReleaseImportEntry(p.storedID); err != nil {
					s.logger.Error("failed to release entry", slog.Int64("entry_id", p.storedID), slog.String("error", err.Error()))
				}
			}
			continue
		}
		s.count(result, importCreated)

		if p.stored() {
			if err := s.repo.MarkImported(p.storedID, id); err != nil {
				s.logger.Error("failed to mark entry imported", slog.Int64("entry_id", p.storedID), slog.String("error", err.Error()))
			}
		}
	}

	s.logger.Info("import finished",
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
		slog.Bool("dry_run", opts.DryRun))

	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d entries failed to import", result.Failed, len(batch))
	}
	return result, nil
}

// projectIDs maps lower-cased project names to IDs
func (s *Service) projectIDs(ctx context.Context) (map[string]int64, error) {
	projects, err := s.ledger.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	ids := make(map[string]int64, len(projects))
	for _, p := range projects {
		ids[strings.ToLower(p.Name)] = p.ID
	}
	return ids, nil
}

func (s *Service) count(result *ImportResult, outcome string) {
	switch outcome {
	case importCreated:
		result.Created++
	case importSkipped:
		result.Skipped++
	case importFailed:
		result.Failed++
	case importDryRun:
		result.Planned++
	}
	if s.metrics != nil {
		s.metrics.RecordImport(outcome)
	}
}
