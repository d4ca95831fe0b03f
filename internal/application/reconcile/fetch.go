package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

// Data fetching for the service. Both sides are loaded completely before
// the engine runs.

// FetchActivity fetches an activity file from a registered provider
func (s *Service) FetchActivity(ctx context.Context, source string, window worklog.Window, action string, maxEvents int) (*files.ActivityFile, error) {
	provider, err := s.activity.Get(source)
	if err != nil {
		return nil, err
	}

	identity, err := provider.Identity(ctx)
	if err != nil {
		s.recordFetch(source, err)
		return nil, err
	}

	events, err := provider.FetchEvents(ctx, providers.FetchOptions{
		Start:     window.Start,
		End:       window.End,
		Action:    action,
		MaxEvents: maxEvents,
	})
	s.recordFetch(source, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s activity: %w", source, err)
	}

	s.logger.Debug("fetched activity", slog.String("source", source), slog.Int("events", len(events)))

	return &files.ActivityFile{
		User:   identity.Username,
		Name:   identity.Name,
		Period: window.Period(),
		Events: events,
	}, nil
}

// FetchLedger fetches the ledger for a window and stores it as a snapshot
// when storage is configured
func (s *Service) FetchLedger(ctx context.Context, window worklog.Window) (*files.LedgerFile, error) {
	identity, err := s.ledger.Identity(ctx)
	if err != nil {
		s.recordFetch(s.ledger.Name(), err)
		return nil, err
	}

	entries, err := s.ledger.FetchEntries(ctx, providers.FetchOptions{Start: window.Start, End: window.End})
	s.recordFetch(s.ledger.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger: %w", err)
	}

	ledger := files.NewLedgerFile(identity.Name, window.Period(), entries)
	s.saveSnapshot(ledger)
	return ledger, nil
}

// Projects lists the ledger's projects
func (s *Service) Projects(ctx context.Context) ([]providers.Project, error) {
	return s.ledger.Projects(ctx)
}

// AddEntry creates a single ledger entry
func (s *Service) AddEntry(ctx context.Context, entry providers.NewEntry) (int64, error) {
	return s.ledger.CreateEntry(ctx, entry)
}

func (s *Service) saveSnapshot(ledger *files.LedgerFile) {
	if s.repo == nil {
		return
	}
	snapshot := &storage.Snapshot{
		ID:          s.newID(),
		Source:      s.ledger.Name(),
		TakenAt:     s.now().UTC(),
		PeriodStart: ledger.Period.Start,
		PeriodEnd:   ledger.Period.End,
		Entries:     ledger.Entries,
	}
	if err := s.repo.SaveSnapshot(snapshot); err != nil {
		s.logger.Error("failed to save ledger snapshot", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("saved ledger snapshot", slog.String("snapshot_id", snapshot.ID), slog.Int("entries", snapshot.EntryCount))
}

func (s *Service) recordFetch(provider string, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.RecordFetch(provider, result)
}
