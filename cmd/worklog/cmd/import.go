package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/cli"
)

var importFlags struct {
	file      string
	runID     string
	projectID int64
	dryRun    bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create Toggl entries from an import or activity file",
	Long: `Create Toggl time entries from a file or from a recorded run.

The file may be an import batch (as written by compare --generate-import)
or an activity file, which becomes one entry per event. Entries without a
description or start time are skipped. Entries without a duration get
30 minutes.

Examples:
  worklog import --file result/toggl_import.json
  worklog import --file activity.json --project 123456 --dry-run
  worklog import --run 5f0c9a4e-...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.PrintHeader(os.Stdout, "import", importFlags.dryRun)

		app, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if err := app.Clients.RequireLedger(cfg); err != nil {
			return err
		}

		opts := reconcile.ImportOptions{DryRun: importFlags.dryRun, ProjectID: importFlags.projectID}

		var result *reconcile.ImportResult
		if importFlags.runID != "" {
			result, err = app.Service.ImportRun(cmd.Context(), importFlags.runID, opts)
		} else {
			src, loadErr := files.LoadImportSource(importFlags.file)
			if loadErr != nil {
				return loadErr
			}
			kind := "import batch"
			if src.IsActivity() {
				kind = "activity file"
			}
			fmt.Printf("Importing %s %s\n\n", kind, importFlags.file)
			result, err = app.Service.Import(cmd.Context(), src, opts)
		}

		if result != nil {
			cli.PrintImportSummary(os.Stdout, result)
		}
		return err
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if importFlags.file == "" && importFlags.runID == "" {
			return errors.New("one of --file or --run is required")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importFlags.file, "file", "f", "", "import batch or activity file")
	importCmd.Flags().StringVar(&importFlags.runID, "run", "", "import the stored batch of a recorded run")
	importCmd.Flags().Int64VarP(&importFlags.projectID, "project", "p", 0, "Toggl project ID for every entry (default: resolve by project name)")
	importCmd.Flags().BoolVar(&importFlags.dryRun, "dry-run", false, "show what would be created without creating anything")
	importCmd.MarkFlagsMutuallyExclusive("file", "run")
}
