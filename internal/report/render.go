package report

import (
	"fmt"
	"io"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
)

// Comparison renders a comparison in the given format.
func Comparison(w io.Writer, format Format, c *files.ComparisonFile) error {
	switch format {
	case FormatHTML:
		return ComparisonHTML(w, c)
	case FormatJSON:
		return WriteJSON(w, c)
	case FormatText:
		return ComparisonText(w, c)
	case FormatMarkdown:
		return ComparisonMarkdown(w, c)
	default:
		return fmt.Errorf("unsupported comparison format %q", format)
	}
}

// Changeset renders a snapshot changeset in the given format.
func Changeset(w io.Writer, format Format, s SideBySide) error {
	switch format {
	case FormatHTML:
		return SideBySideHTML(w, s)
	case FormatJSON:
		return WriteJSON(w, s.Changes)
	case FormatText:
		return SideBySideText(w, s)
	case FormatMarkdown:
		return SideBySideMarkdown(w, s)
	default:
		return fmt.Errorf("unsupported side-by-side format %q", format)
	}
}

// Activity renders an activity file as text, JSON or CSV.
func Activity(w io.Writer, format Format, a *files.ActivityFile) error {
	switch format {
	case FormatText:
		return ActivityText(w, a)
	case FormatCSV:
		return files.WriteActivityCSV(w, a.Events)
	default:
		return WriteJSON(w, a)
	}
}

// Ledger renders a ledger file as text, JSON or CSV.
func Ledger(w io.Writer, format Format, l *files.LedgerFile) error {
	switch format {
	case FormatText:
		return LedgerText(w, l)
	case FormatCSV:
		return files.WriteLedgerCSV(w, l.Entries)
	default:
		return WriteJSON(w, l)
	}
}
