package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/differ"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Row is one line of a comparison report.
type Row struct {
	Time    string
	Task    string
	Project string
	Action  string // Duration for ledger-only rows
	Status  string
	Class   string
}

// DayRows groups the rows of one day.
type DayRows struct {
	Date    string
	Weekday string
	Rows    []Row
}

// ComparisonView is a comparison file arranged for rendering.
type ComparisonView struct {
	Summary files.ComparisonSummary
	Days    []DayRows
}

var statusLabels = map[matcher.Status]struct{ label, class string }{
	matcher.StatusMatched:    {"Logged", "matched-row"},
	matcher.StatusMissing:    {"Missing", "missing-row"},
	matcher.StatusLedgerOnly: {"Toggl Only", "toggl-only-row"},
}

// NewComparisonView arranges all records by day, newest day first, and by
// time within a day.
func NewComparisonView(c *files.ComparisonFile) ComparisonView {
	records := slices.Concat(c.Missing, c.Matched, c.LedgerOnly)

	byDay := make(map[string][]matcher.Record)
	for _, r := range records {
		byDay[r.Day()] = append(byDay[r.Day()], r)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b string) int { return cmp.Compare(b, a) })

	view := ComparisonView{Summary: c.Summary, Days: make([]DayRows, 0, len(days))}
	for _, day := range days {
		dayRecords := byDay[day]
		slices.SortStableFunc(dayRecords, func(a, b matcher.Record) int { return cmp.Compare(a.Date, b.Date) })

		rows := make([]Row, 0, len(dayRecords))
		for _, r := range dayRecords {
			rows = append(rows, toRow(r))
		}
		view.Days = append(view.Days, DayRows{Date: day, Weekday: worklog.WeekdayName(day), Rows: rows})
	}
	return view
}

func toRow(r matcher.Record) Row {
	status := statusLabels[r.Status]
	row := Row{
		Time:    worklog.TimeOf(r.Date),
		Task:    cmp.Or(r.Details.Target, r.Description, "No description"),
		Project: cmp.Or(r.Project, "No project"),
		Action:  cmp.Or(r.Action, "No action"),
		Status:  status.label,
		Class:   status.class,
	}
	if r.Status == matcher.StatusLedgerOnly && r.DurationFormatted != "" {
		row.Action = r.DurationFormatted
	}
	return row
}

// tagList renders tags for display.
func tagList(tags []string) string {
	if len(tags) == 0 {
		return "No tags"
	}
	return strings.Join(tags, ", ")
}

// entryDuration prefers the formatted duration of an entry.
func entryDuration(e worklog.LedgerEntry) string {
	if e.DurationFormatted != "" {
		return e.DurationFormatted
	}
	return worklog.FormatHours(e.Duration)
}

// SideBySide is a changeset with the periods of both snapshots.
type SideBySide struct {
	OlderPeriod worklog.Period
	NewerPeriod worklog.Period
	Changes     *differ.Changeset
}

// TaskCount counts distinct (day, task) groups in the changeset.
func (s SideBySide) TaskCount() int {
	n := 0
	for _, day := range s.Changes.Days {
		n += len(day.Groups)
	}
	return n
}
