package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// table renders headers and rows with tablewriter.
func table(w io.Writer, headers []string, rows [][]string) error {
	t := tablewriter.NewTable(w)

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.Header(header...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := t.Append(cells...); err != nil {
			return err
		}
	}
	return t.Render()
}

// ComparisonText renders a comparison as a summary followed by one table
// per day.
func ComparisonText(w io.Writer, c *files.ComparisonFile) error {
	view := NewComparisonView(c)
	s := view.Summary
	fmt.Fprintf(w, "Activity period: %s to %s\n", s.ActivityPeriod.Start, s.ActivityPeriod.End)
	fmt.Fprintf(w, "Ledger period:   %s to %s\n", s.LedgerPeriod.Start, s.LedgerPeriod.End)
	fmt.Fprintf(w, "Events: %d  Entries: %d  Matched: %d  Missing: %d  Toggl only: %d\n\n",
		s.TotalEvents, s.TotalEntries, s.MatchedCount, s.MissingCount, s.LedgerOnlyCount)

	if len(view.Days) == 0 {
		_, err := fmt.Fprintln(w, "No entries found!")
		return err
	}

	for _, day := range view.Days {
		fmt.Fprintf(w, "%s - %s\n", day.Date, day.Weekday)
		rows := make([][]string, 0, len(day.Rows))
		for _, r := range day.Rows {
			rows = append(rows, []string{r.Time, r.Task, r.Project, r.Action, r.Status})
		}
		if err := table(w, []string{"Time", "Task", "Project", "Action", "Status"}, rows); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

// SideBySideText renders a snapshot changeset with the classification of
// every updated entry.
func SideBySideText(w io.Writer, s SideBySide) error {
	sum := s.Changes.Summary
	fmt.Fprintf(w, "Original period: %s to %s\n", s.OlderPeriod.Start, s.OlderPeriod.End)
	fmt.Fprintf(w, "Updated period:  %s to %s\n", s.NewerPeriod.Start, s.NewerPeriod.End)
	fmt.Fprintf(w, "Added: %d  Modified: %d  Unchanged: %d\n\n", sum.Added, sum.Modified, sum.Unchanged)

	if len(s.Changes.Days) == 0 {
		_, err := fmt.Fprintln(w, "No entries found!")
		return err
	}

	for _, day := range s.Changes.Days {
		fmt.Fprintf(w, "%s - %s\n", day.Date, day.Weekday)
		var rows [][]string
		for _, g := range day.Groups {
			for _, e := range g.Older {
				rows = append(rows, []string{g.Label, "original", worklog.TimeOf(e.Date), e.Project, tagList(e.Tags), entryDuration(e)})
			}
			for _, e := range g.Newer {
				rows = append(rows, []string{g.Label, string(e.Classification), worklog.TimeOf(e.Date), e.Project, tagList(e.Tags), entryDuration(e.LedgerEntry)})
			}
		}
		if err := table(w, []string{"Task", "State", "Time", "Project", "Tags", "Duration"}, rows); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

// ActivityText lists the events of an activity file.
func ActivityText(w io.Writer, a *files.ActivityFile) error {
	fmt.Fprintf(w, "Activity for %s (%s to %s): %d events\n", a.User, a.Period.Start, a.Period.End, len(a.Events))
	if len(a.Events) == 0 {
		_, err := fmt.Fprintln(w, "No activity found for the specified period")
		return err
	}
	rows := make([][]string, 0, len(a.Events))
	for _, e := range a.Events {
		rows = append(rows, []string{e.Date, e.Action, e.Project, e.Details.Target})
	}
	return table(w, []string{"Date", "Action", "Project", "Target"}, rows)
}

// LedgerText lists the entries of a ledger file with the total duration.
func LedgerText(w io.Writer, l *files.LedgerFile) error {
	fmt.Fprintf(w, "Ledger for %s (%s to %s): %d entries, total %s\n",
		l.User, l.Period.Start, l.Period.End, len(l.Entries), l.TotalDuration.Formatted)
	if len(l.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No time entries found for the specified period")
		return err
	}
	rows := make([][]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		rows = append(rows, []string{e.Date, e.Description, e.Project, entryDuration(e), tagList(e.Tags)})
	}
	return table(w, []string{"Date", "Description", "Project", "Duration", "Tags"}, rows)
}

// ProjectsText lists ledger projects.
func ProjectsText(w io.Writer, projects []providers.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No projects found in the workspace")
		return err
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name})
	}
	return table(w, []string{"ID", "Name"}, rows)
}
