package reconcile

import (
	"testing"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(date, target string) worklog.ActivityEvent {
	return worklog.ActivityEvent{
		Date:    date,
		Action:  "Pushed To",
		Project: "api",
		Details: worklog.Details{Target: target},
	}
}

func entry(id int64, date, description string, hours float64) worklog.LedgerEntry {
	return worklog.LedgerEntry{
		ID:          id,
		Date:        date,
		Description: description,
		Project:     "Backend",
		Duration:    hours,
		Tags:        []string{},
	}
}

func sampleFiles() (*files.ActivityFile, *files.LedgerFile) {
	activity := &files.ActivityFile{
		User:   "dev",
		Period: worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
		Events: []worklog.ActivityEvent{
			event("2024-03-01 10:00:00", "#123 Fix login"),
			event("2024-03-01 11:00:00", "#123 Fix login"),
			event("2024-03-01 12:00:00", "#456 Export"),
			event("2024-03-01 12:30:00", "#456 Export"),
			event("2024-03-02 09:00:00", "Update README"),
		},
	}
	ledger := files.NewLedgerFile("Dev", activity.Period, []worklog.LedgerEntry{
		entry(1, "2024-03-01 09:00:00", "#123 login work", 1),
		entry(2, "2024-03-01 13:00:00", "Lunch", 0.5),
	})
	return activity, ledger
}

func TestEngine_Compare(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	activity, ledger := sampleFiles()

	c := engine.Compare(activity, ledger)

	t.Run("partition", func(t *testing.T) {
		summary := c.Result.Summary()
		assert.Equal(t, 2, summary.Matched)
		assert.Equal(t, 2, summary.Missing)
		assert.Equal(t, 1, summary.LedgerOnly)
		assert.Equal(t, 1, summary.Unkeyed)
		assert.Equal(t, 1, summary.Consumed)
		assert.Equal(t, "Lunch", c.Result.LedgerOnly[0].Description)
	})

	t.Run("squashed batch", func(t *testing.T) {
		require.Len(t, c.Squashed, 1)
		assert.Equal(t, squash.Entry{
			Description: "#456 Export",
			Start:       "2024-03-01 12:00:00",
			Duration:    3600,
			ProjectName: "api",
			Tags:        []string{"source-import", "squashed"},
		}, c.Squashed[0])

		imp := c.ImportFile()
		assert.Equal(t, activity.Period, imp.Period)
		assert.Equal(t, c.Squashed, imp.Entries)
	})

	t.Run("comparison file", func(t *testing.T) {
		assert.Equal(t, 5, c.File.Summary.TotalEvents)
		assert.Equal(t, 2, c.File.Summary.TotalEntries)
		assert.Equal(t, 2, c.File.Summary.MissingCount)
		require.Len(t, c.File.ImportData, 2, "import data is one entry per missing event")
		assert.Equal(t, []string{"source-import", "pushed-to"}, c.File.ImportData[0].Tags)
		assert.Equal(t, 1800, c.File.ImportData[1].Duration)
	})
}

func TestEngine_SideBySide(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	original := files.NewLedgerFile("Dev", worklog.Period{}, []worklog.LedgerEntry{
		entry(1, "2024-03-01 09:00:00", "#123 login work", 1),
		entry(2, "2024-03-01 13:00:00", "Lunch", 0.5),
	})
	updated := files.NewLedgerFile("Dev", worklog.Period{}, []worklog.LedgerEntry{
		entry(1, "2024-03-01 09:00:00", "#123 login work", 1.5),
		entry(2, "2024-03-01 13:00:00", "Lunch", 0.5),
		entry(3, "2024-03-02 10:00:00", "#9 Review", 0.5),
	})

	t.Run("without preview", func(t *testing.T) {
		cs := engine.SideBySide(original, updated, nil)
		assert.Equal(t, 1, cs.Summary.Added)
		assert.Equal(t, 1, cs.Summary.Modified)
		assert.Equal(t, 1, cs.Summary.Unchanged)
		assert.Equal(t, "2024-03-02", cs.Days[0].Date)
	})

	t.Run("preview entries are added", func(t *testing.T) {
		preview := []squash.Entry{{Description: "#456 Export", Start: "2024-03-01 12:00:00", Duration: 1800, ProjectName: "api"}}
		cs := engine.SideBySide(original, updated, preview)
		assert.Equal(t, 2, cs.Summary.Added)
		assert.Equal(t, 4, cs.Summary.Newer)
		assert.Len(t, updated.Entries, 3, "updated ledger is not modified")
	})
}

func TestEngine_ImportEntries(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())

	batch := &files.ImportSource{Entries: []squash.Entry{{Description: "#1"}}}
	assert.Equal(t, batch.Entries, engine.ImportEntries(batch))

	feed := &files.ImportSource{Events: []worklog.ActivityEvent{event("2024-03-01 10:00:00", "#7 Add export")}}
	entries := engine.ImportEntries(feed)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pushed To in api - #7 Add export", entries[0].Description)
	assert.Equal(t, []string{"source-import", "pushed to"}, entries[0].Tags)
	assert.Equal(t, 1800, entries[0].Duration)
}
