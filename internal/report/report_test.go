package report

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/differ"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

func sampleComparison() *files.ComparisonFile {
	return &files.ComparisonFile{
		Summary: files.ComparisonSummary{
			ActivityPeriod:  worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
			LedgerPeriod:    worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
			TotalEvents:     3,
			TotalEntries:    2,
			MatchedCount:    1,
			MissingCount:    1,
			LedgerOnlyCount: 1,
		},
		Matched: []matcher.Record{
			{Status: matcher.StatusMatched, Date: "2024-03-04 14:00:00", Description: "#12", Project: "api", Action: "pushed to", Details: worklog.Details{Target: "#12 Login"}},
		},
		Missing: []matcher.Record{
			{Status: matcher.StatusMissing, Date: "2024-03-04 09:30:00", Description: "#15", Project: "web", Action: "opened"},
		},
		LedgerOnly: []matcher.Record{
			{Status: matcher.StatusLedgerOnly, Date: "2024-03-05 10:00:00", Description: "Standup", DurationFormatted: "0h 15m"},
		},
	}
}

func sampleSideBySide() SideBySide {
	older := []worklog.LedgerEntry{
		{Date: "2024-03-04 09:00:00", Description: "#12 Login", Project: "api", Duration: 1, Tags: []string{"dev"}},
	}
	newer := []worklog.LedgerEntry{
		{Date: "2024-03-04 09:00:00", Description: "#12 Login", Project: "api", Duration: 2, Tags: []string{"dev"}},
		{Date: "2024-03-04 13:00:00", Description: "#12 Login", Project: "api", Duration: 0.5},
	}
	return SideBySide{
		OlderPeriod: worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
		NewerPeriod: worklog.Period{Start: "2024-03-01", End: "2024-03-31"},
		Changes:     differ.New().Diff(older, newer),
	}
}

func TestNewComparisonView(t *testing.T) {
	view := NewComparisonView(sampleComparison())

	require.Len(t, view.Days, 2)
	assert.Equal(t, "2024-03-05", view.Days[0].Date, "newest day first")
	assert.Equal(t, "Tuesday", view.Days[0].Weekday)

	monday := view.Days[1]
	require.Len(t, monday.Rows, 2)
	assert.Equal(t, "09:30:00", monday.Rows[0].Time)
	assert.Equal(t, "Missing", monday.Rows[0].Status)
	assert.Equal(t, "missing-row", monday.Rows[0].Class)
	assert.Equal(t, "#12 Login", monday.Rows[1].Task, "target is preferred over description")
	assert.Equal(t, "Logged", monday.Rows[1].Status)

	standup := view.Days[0].Rows[0]
	assert.Equal(t, "0h 15m", standup.Action)
	assert.Equal(t, "No project", standup.Project)
	assert.Equal(t, "toggl-only-row", standup.Class)
}

func TestComparisonHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ComparisonHTML(&buf, sampleComparison()))

	out := buf.String()
	assert.Contains(t, out, "<title>Activity-Ledger Comparison Results</title>")
	assert.Contains(t, out, "2024-03-04 - Monday")
	assert.Contains(t, out, `class="missing-row"`)
	assert.Contains(t, out, `class="matched-row"`)
	assert.Contains(t, out, `class="toggl-only-row"`)
	assert.Less(t, strings.Index(out, "2024-03-05"), strings.Index(out, "2024-03-04 - Monday"))
	assert.NotContains(t, out, "No entries found!")
}

func TestComparisonHTML_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ComparisonHTML(&buf, &files.ComparisonFile{}))
	assert.Contains(t, buf.String(), "No entries found!")
}

func TestSideBySideHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SideBySideHTML(&buf, sampleSideBySide()))

	out := buf.String()
	assert.Contains(t, out, "Original Toggl Records")
	assert.Contains(t, out, "Updated Toggl Records")
	assert.Contains(t, out, "Task: #12 Login")
	assert.Contains(t, out, "modified")
	assert.Contains(t, out, "added")
}

func TestComparisonText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ComparisonText(&buf, sampleComparison()))

	out := buf.String()
	assert.Contains(t, out, "Matched: 1  Missing: 1  Toggl only: 1")
	assert.Contains(t, out, "2024-03-04 - Monday")
	assert.Contains(t, out, "#12 Login")
	assert.Contains(t, out, "Toggl Only")
}

func TestSideBySideText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SideBySideText(&buf, sampleSideBySide()))

	out := buf.String()
	assert.Contains(t, out, "Added: 1  Modified: 1  Unchanged: 0")
	assert.Contains(t, out, "original")
	assert.Contains(t, out, "No tags")
}

func TestActivityAndLedgerText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ActivityText(&buf, &files.ActivityFile{User: "dev", Period: worklog.Period{Start: "2024-03-01", End: "2024-03-31"}}))
	assert.Contains(t, buf.String(), "No activity found for the specified period")

	buf.Reset()
	ledger := &files.LedgerFile{
		User:          "dev",
		TotalDuration: files.TotalDuration{Hours: 1, Minutes: 30, Formatted: "1h 30m"},
		Entries: []worklog.LedgerEntry{
			{Date: "2024-03-04 09:00:00", Description: "#12 Login", Project: "api", Duration: 1.5},
		},
	}
	require.NoError(t, LedgerText(&buf, ledger))
	assert.Contains(t, buf.String(), "total 1h 30m")
	assert.Contains(t, buf.String(), "1h 30m")
	assert.Contains(t, buf.String(), "No tags")
}

func TestComparisonMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ComparisonMarkdown(&buf, sampleComparison()))

	out := buf.String()
	assert.Contains(t, out, "# Activity-Ledger Comparison Results")
	assert.Contains(t, out, "## 2024-03-04 - Monday")
	assert.Contains(t, out, "**Matched**: 1")
	assert.Contains(t, out, "Project")
}

func TestSideBySideMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SideBySideMarkdown(&buf, sampleSideBySide()))

	out := buf.String()
	assert.Contains(t, out, "# Toggl Records Comparison")
	assert.Contains(t, out, "### Task: #12 Login")
	assert.Contains(t, out, "modified")
}

func TestComparison_Dispatch(t *testing.T) {
	for _, format := range []Format{FormatHTML, FormatJSON, FormatText, FormatMarkdown} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Comparison(&buf, format, sampleComparison()))
			assert.NotEmpty(t, buf.String())
		})
	}

	var buf bytes.Buffer
	assert.Error(t, Comparison(&buf, FormatCSV, sampleComparison()))
	assert.Error(t, Changeset(&buf, FormatCSV, sampleSideBySide()))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HTML", FormatHTML, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	f, err = ParseFormat("", FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, Format(""), f)

	_, err = ParseFormat("csv", FormatHTML, FormatJSON)
	assert.ErrorContains(t, err, "must be one of: html, json")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatMarkdown, DetectFormat(FormatMarkdown, os.Stdout))
	assert.Equal(t, FormatJSON, DetectFormat("", nil))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, FormatJSON, DetectFormat("", f), "regular files are not terminals")
}

func TestFormat_Extension(t *testing.T) {
	assert.Equal(t, ".html", FormatHTML.Extension())
	assert.Equal(t, ".txt", FormatText.Extension())
	assert.Equal(t, ".md", FormatMarkdown.Extension())
	assert.Equal(t, ".csv", FormatCSV.Extension())
}

func TestProjectsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ProjectsText(&buf, nil))
	assert.Contains(t, buf.String(), "No projects found")

	buf.Reset()
	require.NoError(t, ProjectsText(&buf, []providers.Project{{ID: 1234, Name: "Backend"}}))
	assert.Contains(t, buf.String(), "1234")
	assert.Contains(t, buf.String(), "Backend")
}
