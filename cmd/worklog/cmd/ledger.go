package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/cli"
	"github.com/eshaffer321/worklog-reconcile/internal/report"
)

var ledgerFlags struct {
	format string
	output string
}

var ledgerWindow *cli.WindowFlags

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Fetch your Toggl time entries",
	Long: `Fetch the Toggl time entries of the current or previous month.

Running entries are reported with the time elapsed so far. When storage
is enabled the fetched entries are also kept as a snapshot for later
side-by-side comparison.

Examples:
  worklog ledger
  worklog ledger --previous-month --format json -o toggl_previous_month.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(ledgerFlags.format, report.FormatText, report.FormatJSON, report.FormatCSV)
		if err != nil {
			return err
		}
		window, err := ledgerWindow.Window(time.Now())
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if err := app.Clients.RequireLedger(cfg); err != nil {
			return err
		}

		ledger, err := app.Service.FetchLedger(cmd.Context(), window)
		if err != nil {
			return err
		}

		out, closeOut, err := cli.OpenOutput(ledgerFlags.output)
		if err != nil {
			return err
		}
		defer func() { _ = closeOut() }()

		if err := report.Ledger(out, report.DetectFormat(format, out), ledger); err != nil {
			return err
		}
		if ledgerFlags.output != "" {
			fmt.Fprintf(os.Stderr, "Ledger written to %s\n", ledgerFlags.output)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerWindow = cli.RegisterWindowFlags(ledgerCmd, false)
	ledgerCmd.Flags().StringVarP(&ledgerFlags.format, "format", "f", "", "output format: text, json or csv (default text on a terminal, json otherwise)")
	ledgerCmd.Flags().StringVarP(&ledgerFlags.output, "output", "o", "", "write to this file instead of stdout")
}
