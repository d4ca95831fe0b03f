package cmd

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/cli"
	"github.com/eshaffer321/worklog-reconcile/internal/report"
)

var workflowFlags struct {
	source    string
	projectID int64
	yes       bool
	dryRun    bool
}

var workflowWindow *cli.WindowFlags

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Fetch, compare and import in one go",
	Long: `Run the whole monthly routine: fetch your activity and your Toggl
entries for the chosen month, compare them, write the reports to the
result directory, then import the missing time after confirmation.

Examples:
  worklog workflow
  worklog workflow --previous-month --source github
  worklog workflow -p --yes --project 123456`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.PrintHeader(os.Stdout, "workflow", workflowFlags.dryRun)

		window, err := workflowWindow.Window(time.Now())
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		source := cmp.Or(workflowFlags.source, cfg.Reconcile.ActivitySource)
		if _, err := app.Clients.RequireActivity(source); err != nil {
			return err
		}
		if err := app.Clients.RequireLedger(cfg); err != nil {
			return err
		}
		cli.PrintWindow(os.Stdout, source, window)

		result, err := app.Service.Run(cmd.Context(), reconcile.RunOptions{Source: source, Window: window})
		if err != nil {
			return err
		}

		month := workflowWindow.MonthName()
		if err := saveFetched(result, source, month); err != nil {
			return err
		}
		if err := writeComparison(result.Comparison, report.FormatHTML, "", true); err != nil {
			return err
		}
		cli.PrintComparisonSummary(os.Stdout, result.Comparison.Result.Summary(), len(result.Comparison.Squashed))

		if len(result.Comparison.Squashed) == 0 {
			fmt.Println("\nNo entries to import.")
			return nil
		}

		if !workflowFlags.yes && !workflowFlags.dryRun {
			ok, err := cli.Confirm(os.Stdin, os.Stdout,
				fmt.Sprintf("\nImport %d missing entries to Toggl?", len(result.Comparison.Squashed)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Import skipped.")
				return nil
			}
		}

		opts := reconcile.ImportOptions{DryRun: workflowFlags.dryRun, ProjectID: workflowFlags.projectID}
		var imported *reconcile.ImportResult
		if app.Repo != nil {
			imported, err = app.Service.ImportRun(cmd.Context(), result.RunID, opts)
		} else {
			imported, err = app.Service.Import(cmd.Context(), &files.ImportSource{Entries: result.Comparison.Squashed}, opts)
		}
		if imported != nil {
			cli.PrintImportSummary(os.Stdout, imported)
		}
		return err
	},
}

// saveFetched writes both fetched files to the result directory, named
// after the source and month
func saveFetched(result *reconcile.RunResult, source, month string) error {
	activityPath, err := resultPath(fmt.Sprintf("%s_%s_month.json", source, month))
	if err != nil {
		return err
	}
	if err := files.Save(activityPath, result.Activity); err != nil {
		return err
	}

	ledgerPath, err := resultPath(fmt.Sprintf("toggl_%s_month.json", month))
	if err != nil {
		return err
	}
	if err := files.Save(ledgerPath, result.Ledger); err != nil {
		return err
	}

	fmt.Printf("Activity written to %s\nLedger written to %s\n", activityPath, ledgerPath)
	return nil
}

func init() {
	rootCmd.AddCommand(workflowCmd)
	workflowWindow = cli.RegisterWindowFlags(workflowCmd, false)
	workflowCmd.Flags().StringVarP(&workflowFlags.source, "source", "s", "", "activity source: gitlab or github (default from config)")
	workflowCmd.Flags().Int64Var(&workflowFlags.projectID, "project", 0, "Toggl project ID for imported entries (default: resolve by project name)")
	workflowCmd.Flags().BoolVarP(&workflowFlags.yes, "yes", "y", false, "import without asking")
	workflowCmd.Flags().BoolVar(&workflowFlags.dryRun, "dry-run", false, "show what would be imported without creating anything")
}
