package files

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// WriteActivityCSV writes one row per event
func WriteActivityCSV(w io.Writer, events []worklog.ActivityEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Action", "Project", "Target", "Commits", "Branch"}); err != nil {
		return err
	}
	for _, e := range events {
		commits := ""
		if e.Details.Commits > 0 {
			commits = strconv.Itoa(e.Details.Commits)
		}
		if err := cw.Write([]string{e.Date, e.Action, e.Project, e.Details.Target, commits, e.Details.Branch}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLedgerCSV writes one row per entry
func WriteLedgerCSV(w io.Writer, entries []worklog.LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Description", "Project", "Duration", "Tags"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Date, e.Description, e.Project, e.DurationFormatted, strings.Join(e.Tags, ", ")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
