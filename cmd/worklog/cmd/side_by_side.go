package cmd

import (
	"cmp"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/cli"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/report"
)

var sideBySideFlags struct {
	format  string
	output  string
	preview string
}

var sideBySideCmd = &cobra.Command{
	Use:   "side-by-side <original.json> <updated.json>",
	Short: "Compare two fetches of your Toggl entries",
	Long: `Show two Toggl files next to each other, grouped by day and task, with
entries added or modified in the updated file highlighted.

With --preview, the per-event import data of a saved comparison is laid
over the updated file first, so a pending import can be reviewed before
it is made.

Examples:
  worklog side-by-side toggl_before.json toggl_after.json
  worklog side-by-side toggl.json toggl.json --preview result/missing_entries.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(sideBySideFlags.format,
			report.FormatHTML, report.FormatJSON, report.FormatText, report.FormatMarkdown)
		if err != nil {
			return err
		}
		format = cmp.Or(format, report.FormatHTML)

		original, err := files.LoadLedger(args[0])
		if err != nil {
			return err
		}
		updated, err := files.LoadLedger(args[1])
		if err != nil {
			return err
		}

		var preview []squash.Entry
		if sideBySideFlags.preview != "" {
			saved, err := files.LoadComparison(sideBySideFlags.preview)
			if err != nil {
				return err
			}
			preview = saved.ImportData
		}

		engineConfig, err := cli.NewEngineConfig(cfg.Reconcile)
		if err != nil {
			return err
		}
		changes := reconcile.NewEngine(engineConfig).SideBySide(original, updated, preview)

		path, err := outputPath(sideBySideFlags.output, sideBySideFileName+format.Extension())
		if err != nil {
			return err
		}
		view := report.SideBySide{
			OlderPeriod: original.Period,
			NewerPeriod: updated.Period,
			Changes:     changes,
		}
		if err := writeReport(path, func(f *os.File) error {
			return report.Changeset(f, format, view)
		}); err != nil {
			return err
		}

		fmt.Printf("Side-by-side comparison written to %s\n", path)
		fmt.Printf("Added=%d Modified=%d Unchanged=%d\n",
			changes.Summary.Added, changes.Summary.Modified, changes.Summary.Unchanged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sideBySideCmd)
	sideBySideCmd.Flags().StringVarP(&sideBySideFlags.format, "format", "f", "html", "report format: html, json, text or markdown")
	sideBySideCmd.Flags().StringVarP(&sideBySideFlags.output, "output", "o", "", "report file (relative names go to the result directory)")
	sideBySideCmd.Flags().StringVar(&sideBySideFlags.preview, "preview", "", "saved comparison whose import data is previewed on the updated file")
}
