package squash

import (
	"fmt"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// AsLedgerEntries converts a batch into ledger entries, converting the
// duration to hours, so it can be laid over a fetched ledger for preview.
// IDs are negative to keep them apart from real ledger IDs.
func AsLedgerEntries(batch []Entry) []worklog.LedgerEntry {
	out := make([]worklog.LedgerEntry, 0, len(batch))
	for i, e := range batch {
		project := e.ProjectName
		if project == "" {
			project = "No Project"
		}
		out = append(out, worklog.LedgerEntry{
			ID:                -int64(i + 1),
			Date:              e.Start,
			Description:       e.Description,
			Project:           project,
			Duration:          float64(e.Duration) / 3600,
			DurationFormatted: fmt.Sprintf("%dh %dm", e.Duration/3600, (e.Duration%3600)/60),
			Tags:              e.Tags,
		})
	}
	return out
}

// TotalSeconds sums the durations of a batch.
func TotalSeconds(batch []Entry) int {
	total := 0
	for _, e := range batch {
		total += e.Duration
	}
	return total
}
