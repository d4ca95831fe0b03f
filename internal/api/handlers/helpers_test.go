package handlers_test

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/storage"
)

func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

// seedRun stores a completed run with one record of each status and a
// two-entry import batch.
func seedRun(repo *storage.MockRepository, id string) []*storage.ImportEntry {
	_ = repo.StartRun(&storage.Run{
		ID:             id,
		ActivitySource: "gitlab",
		LedgerSource:   "toggl",
		PeriodStart:    "2024-03-01",
		PeriodEnd:      "2024-03-31",
		StartedAt:      time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC),
	})
	_ = repo.SaveRecords(id, []storage.RunRecord{
		{Status: "matched", Date: "2024-03-01 10:00:00", TaskKey: "#123", Project: "api", Action: "Pushed To", Target: "#123 Fix login", Tags: []string{}},
		{Status: "missing", Date: "2024-03-01 12:00:00", TaskKey: "#456", Project: "api", Action: "Pushed To", Target: "#456 Export", Tags: []string{}},
		{Status: "ledger_only", Date: "2024-03-01 13:00:00", TaskKey: "Lunch", Description: "Lunch", Project: "Backend", Duration: 0.5, Tags: []string{}},
	})
	batch := []*storage.ImportEntry{
		{Description: "#456 Export", Start: "2024-03-01 12:00:00", Duration: 3600, ProjectName: "api", Tags: []string{"source-import", "squashed"}, Squashed: true},
		{Description: "#789 Search", Start: "2024-03-02 09:00:00", Duration: 1800, ProjectName: "api", Tags: []string{"source-import", "squashed"}, Squashed: true},
	}
	_ = repo.SaveImportEntries(id, batch)
	_ = repo.CompleteRun(id, storage.RunCounts{TotalEvents: 3, TotalEntries: 1, Matched: 1, Missing: 1, LedgerOnly: 1})
	return batch
}

func seedSnapshots(repo *storage.MockRepository) {
	base := time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)
	_ = repo.SaveSnapshot(&storage.Snapshot{
		ID: "older", Source: "toggl", TakenAt: base, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31",
		Entries: []worklog.LedgerEntry{
			{ID: 1, Date: "2024-03-01 09:00:00", Description: "#123 login work", Project: "Backend", Duration: 1, Tags: []string{}},
		},
	})
	_ = repo.SaveSnapshot(&storage.Snapshot{
		ID: "newer", Source: "toggl", TakenAt: base.Add(time.Hour), PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31",
		Entries: []worklog.LedgerEntry{
			{ID: 1, Date: "2024-03-01 09:00:00", Description: "#123 login work", Project: "Backend", Duration: 1.5, Tags: []string{}},
			{ID: 2, Date: "2024-03-02 10:00:00", Description: "#9 docs", Project: "Backend", Duration: 0.5, Tags: []string{}},
		},
	})
}
