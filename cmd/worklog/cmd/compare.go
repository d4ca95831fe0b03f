package cmd

import (
	"cmp"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/cli"
	"github.com/eshaffer321/worklog-reconcile/internal/report"
)

// Files written to the result directory
const (
	comparisonFileName = "missing_entries.json"
	importFileName     = "toggl_import.json"
	sideBySideFileName = "toggl_comparison"
)

var compareFlags struct {
	format         string
	output         string
	generateImport bool
}

var compareCmd = &cobra.Command{
	Use:   "compare <activity.json> <ledger.json>",
	Short: "Compare fetched activity with fetched time entries",
	Long: `Compare an activity file with a Toggl file and report the tasks you
worked on without logging time.

The full comparison, including per-event import data, is always written
to missing_entries.json in the result directory. The report is written
to --output, or to missing_entries.<format> in the result directory.

Examples:
  worklog compare gitlab_current_month.json toggl_current_month.json
  worklog compare activity.json ledger.json --format text
  worklog compare activity.json ledger.json --generate-import`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(compareFlags.format,
			report.FormatHTML, report.FormatJSON, report.FormatText, report.FormatMarkdown)
		if err != nil {
			return err
		}
		format = cmp.Or(format, report.FormatHTML)

		activity, err := files.LoadActivity(args[0])
		if err != nil {
			return err
		}
		ledger, err := files.LoadLedger(args[1])
		if err != nil {
			return err
		}

		engineConfig, err := cli.NewEngineConfig(cfg.Reconcile)
		if err != nil {
			return err
		}
		comparison := reconcile.NewEngine(engineConfig).Compare(activity, ledger)

		if err := writeComparison(comparison, format, compareFlags.output, compareFlags.generateImport); err != nil {
			return err
		}
		cli.PrintComparisonSummary(os.Stdout, comparison.Result.Summary(), len(comparison.Squashed))
		return nil
	},
}

// writeComparison saves the comparison file, the report and optionally
// the squashed import batch
func writeComparison(c *reconcile.Comparison, format report.Format, output string, generateImport bool) error {
	comparisonPath, err := resultPath(comparisonFileName)
	if err != nil {
		return err
	}
	if err := files.Save(comparisonPath, c.File); err != nil {
		return err
	}
	fmt.Printf("Comparison written to %s\n", comparisonPath)

	if format != report.FormatJSON {
		reportPath, err := outputPath(output, "missing_entries"+format.Extension())
		if err != nil {
			return err
		}
		if err := writeReport(reportPath, func(f *os.File) error {
			return report.Comparison(f, format, c.File)
		}); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", reportPath)
	}

	if generateImport {
		importPath, err := resultPath(importFileName)
		if err != nil {
			return err
		}
		if err := files.Save(importPath, c.ImportFile()); err != nil {
			return err
		}
		fmt.Printf("Import data written to %s\n", importPath)
	}
	return nil
}

// writeReport creates path and renders into it
func writeReport(path string, render func(*os.File) error) error {
	f, closeFile, err := cli.OpenOutput(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = closeFile()
		return err
	}
	return closeFile()
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&compareFlags.format, "format", "f", "html", "report format: html, json, text or markdown")
	compareCmd.Flags().StringVarP(&compareFlags.output, "output", "o", "", "report file (relative names go to the result directory)")
	compareCmd.Flags().BoolVarP(&compareFlags.generateImport, "generate-import", "g", false, "also write the squashed import batch to toggl_import.json")
}
