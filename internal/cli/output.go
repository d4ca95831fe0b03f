package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// PrintHeader prints the command header
func PrintHeader(w io.Writer, command string, dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Fprintf(w, "worklog: %s (%s mode)\n", command, mode)
}

// PrintWindow prints the source and period of a fetch
func PrintWindow(w io.Writer, source string, window worklog.Window) {
	period := window.Period()
	fmt.Fprintf(w, "Source: %s | Period: %s to %s\n\n", source, period.Start, period.End)
}

// PrintComparisonSummary prints the outcome counts of a comparison
func PrintComparisonSummary(w io.Writer, s matcher.Summary, importEntries int) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Matched=%d Missing=%d TogglOnly=%d Consumed=%d\n",
		s.Matched, s.Missing, s.LedgerOnly, s.Consumed)
	if s.Unkeyed > 0 {
		fmt.Fprintf(w, "Skipped %d events without a task key\n", s.Unkeyed)
	}
	fmt.Fprintf(w, "Entries to import: %d\n", importEntries)
}

// PrintImportSummary prints the result of an import
func PrintImportSummary(w io.Writer, result *reconcile.ImportResult) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if result.DryRun {
		fmt.Fprintf(w, "Summary: Planned=%d Skipped=%d\n", result.Planned, result.Skipped)
		return
	}
	fmt.Fprintf(w, "Summary: Created=%d Skipped=%d Failed=%d\n", result.Created, result.Skipped, result.Failed)

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, err := range result.Errors {
			fmt.Fprintf(w, "  - %v\n", err)
		}
	}

	if result.Created > 0 && result.Failed == 0 {
		fmt.Fprintln(w, "\nImport completed successfully.")
	}
}

// Confirm asks a yes/no question and reports whether the answer was "y"
// or "yes". End of input counts as no.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s (y/n): ", question)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// OpenOutput opens path for writing, or returns stdout when path is empty.
// The returned close function is safe to call either way.
func OpenOutput(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}
