package report

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// ComparisonMarkdown renders a comparison as a markdown document with one
// table per day.
func ComparisonMarkdown(w io.Writer, c *files.ComparisonFile) error {
	view := NewComparisonView(c)
	s := view.Summary

	doc := md.NewMarkdown(w)
	doc.H1("Activity-Ledger Comparison Results").LF()
	doc.H2("Summary").LF()
	doc.BulletList(
		fmt.Sprintf("%s: %s to %s", md.Bold("Activity period"), s.ActivityPeriod.Start, s.ActivityPeriod.End),
		fmt.Sprintf("%s: %s to %s", md.Bold("Ledger period"), s.LedgerPeriod.Start, s.LedgerPeriod.End),
		fmt.Sprintf("%s: %d", md.Bold("Total activity events"), s.TotalEvents),
		fmt.Sprintf("%s: %d", md.Bold("Total ledger entries"), s.TotalEntries),
		fmt.Sprintf("%s: %d", md.Bold("Matched"), s.MatchedCount),
		fmt.Sprintf("%s: %d", md.Bold("Missing"), s.MissingCount),
		fmt.Sprintf("%s: %d", md.Bold("Toggl only"), s.LedgerOnlyCount),
	).LF()

	if len(view.Days) == 0 {
		doc.PlainText(md.Italic("No entries found!")).LF()
		return doc.Build()
	}

	for _, day := range view.Days {
		doc.H2(fmt.Sprintf("%s - %s", day.Date, day.Weekday)).LF()
		rows := make([][]string, 0, len(day.Rows))
		for _, r := range day.Rows {
			rows = append(rows, []string{r.Time, r.Task, r.Project, r.Action, r.Status})
		}
		doc.Table(md.TableSet{
			Header: []string{"Time", "Task", "Project", "Action", "Status"},
			Rows:   rows,
		}).LF()
	}
	return doc.Build()
}

// SideBySideMarkdown renders a snapshot changeset as markdown, one section
// per day and one table per task.
func SideBySideMarkdown(w io.Writer, s SideBySide) error {
	sum := s.Changes.Summary

	doc := md.NewMarkdown(w)
	doc.H1("Toggl Records Comparison").LF()
	doc.BulletList(
		fmt.Sprintf("%s: %s to %s", md.Bold("Original period"), s.OlderPeriod.Start, s.OlderPeriod.End),
		fmt.Sprintf("%s: %s to %s", md.Bold("Updated period"), s.NewerPeriod.Start, s.NewerPeriod.End),
		fmt.Sprintf("%s: %d", md.Bold("Total tasks"), s.TaskCount()),
		fmt.Sprintf("%s: %d, %s: %d, %s: %d", md.Bold("Added"), sum.Added, md.Bold("Modified"), sum.Modified, md.Bold("Unchanged"), sum.Unchanged),
	).LF()

	for _, day := range s.Changes.Days {
		doc.H2(fmt.Sprintf("%s - %s", day.Date, day.Weekday)).LF()
		for _, g := range day.Groups {
			doc.H3("Task: " + g.Label).LF()
			var rows [][]string
			for _, e := range g.Older {
				rows = append(rows, []string{"original", worklog.TimeOf(e.Date), e.Project, tagList(e.Tags), entryDuration(e)})
			}
			for _, e := range g.Newer {
				rows = append(rows, []string{string(e.Classification), worklog.TimeOf(e.Date), e.Project, tagList(e.Tags), entryDuration(e.LedgerEntry)})
			}
			doc.Table(md.TableSet{
				Header: []string{"State", "Time", "Project", "Tags", "Duration"},
				Rows:   rows,
			}).LF()
		}
	}
	return doc.Build()
}
