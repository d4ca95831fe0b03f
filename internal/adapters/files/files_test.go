package files

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSaveAndLoadActivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity.json")
	in := &ActivityFile{
		User:   "dev",
		Name:   "Dev Eloper",
		Period: worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
		Events: []worklog.ActivityEvent{{
			Date: "2024-03-01 10:00:00", Action: "Pushed To", Project: "api",
			Details: worklog.Details{Target: "#123 Fix", Commits: 2, Branch: "main"},
		}},
	}
	require.NoError(t, Save(path, in))

	out, err := LoadActivity(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_Errors(t *testing.T) {
	_, err := LoadLedger(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadLedger(writeFile(t, "{not json"))
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestNewLedgerFile_Total(t *testing.T) {
	entries := []worklog.LedgerEntry{
		{Duration: 1.5},
		{Duration: 0.25},
		{Duration: 2},
	}
	lf := NewLedgerFile("dev", worklog.Period{}, entries)
	assert.Equal(t, TotalDuration{Hours: 3, Minutes: 45, Formatted: "3h 45m"}, lf.TotalDuration)

	empty := NewLedgerFile("dev", worklog.Period{}, nil)
	assert.NotNil(t, empty.Entries)
	assert.Equal(t, "0h 0m", empty.TotalDuration.Formatted)
}

func TestLoadImportSource(t *testing.T) {
	t.Run("import batch", func(t *testing.T) {
		src, err := LoadImportSource(writeFile(t, `{
			"period": {"start": "2024-03-01", "end": "2024-03-31"},
			"entries": [{"description": "#1", "start": "2024-03-01 10:00:00", "duration": 3600}]
		}`))
		require.NoError(t, err)
		assert.False(t, src.IsActivity())
		require.Len(t, src.Entries, 1)
		assert.Equal(t, 3600, src.Entries[0].Duration)
		assert.Equal(t, "2024-03-01", src.Period.Start)
	})

	t.Run("activity file", func(t *testing.T) {
		src, err := LoadImportSource(writeFile(t, `{
			"user": "dev",
			"events": [{"date": "2024-03-01 10:00:00", "action": "Opened", "project": "api"}]
		}`))
		require.NoError(t, err)
		assert.True(t, src.IsActivity())
		assert.Len(t, src.Events, 1)
	})

	t.Run("empty entries is still a batch", func(t *testing.T) {
		src, err := LoadImportSource(writeFile(t, `{"entries": []}`))
		require.NoError(t, err)
		assert.False(t, src.IsActivity())
		assert.Empty(t, src.Entries)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := LoadImportSource(writeFile(t, `{"user": "dev"}`))
		assert.ErrorIs(t, err, ErrInvalidImportFile)
	})
}

func TestNewComparisonFile(t *testing.T) {
	activity := &ActivityFile{
		Period: worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
		Events: make([]worklog.ActivityEvent, 4),
	}
	ledger := &LedgerFile{Entries: make([]worklog.LedgerEntry, 2)}
	result := &matcher.Result{
		Missing:  []matcher.Record{{Status: matcher.StatusMissing, Description: "#1"}},
		Consumed: 1,
		Unkeyed:  2,
	}
	importData := []squash.Entry{{Description: "#1", Duration: 1800}}

	cf := NewComparisonFile(activity, ledger, result, importData)
	assert.Equal(t, 4, cf.Summary.TotalEvents)
	assert.Equal(t, 2, cf.Summary.TotalEntries)
	assert.Equal(t, 1, cf.Summary.MissingCount)
	assert.Equal(t, 1, cf.Summary.ConsumedCount)
	assert.Equal(t, 2, cf.Summary.UnkeyedCount)
	assert.NotNil(t, cf.Matched)
	assert.NotNil(t, cf.LedgerOnly)

	path := filepath.Join(t.TempDir(), "missing_entries.json")
	require.NoError(t, Save(path, cf))
	loaded, err := LoadComparison(path)
	require.NoError(t, err)
	assert.Equal(t, importData, loaded.ImportData)
	assert.Equal(t, "2024-03-01", loaded.Summary.ActivityPeriod.Start)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteActivityCSV(&buf, []worklog.ActivityEvent{
		{Date: "2024-03-01 10:00:00", Action: "Pushed To", Project: "api", Details: worklog.Details{Target: "#1, login", Commits: 3, Branch: "main"}},
		{Date: "2024-03-02 10:00:00", Action: "Opened", Project: "api"},
	}))
	assert.Equal(t,
		"Date,Action,Project,Target,Commits,Branch\n"+
			"2024-03-01 10:00:00,Pushed To,api,\"#1, login\",3,main\n"+
			"2024-03-02 10:00:00,Opened,api,,,\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteLedgerCSV(&buf, []worklog.LedgerEntry{
		{Date: "2024-03-01 09:00:00", Description: "#1", Project: "Backend", DurationFormatted: "1h 30m", Tags: []string{"a", "b"}},
	}))
	assert.Equal(t,
		"Date,Description,Project,Duration,Tags\n"+
			"2024-03-01 09:00:00,#1,Backend,1h 30m,\"a, b\"\n",
		buf.String())
}
