package cmd

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/cli"
	"github.com/eshaffer321/worklog-reconcile/internal/report"
)

var activityFlags struct {
	source    string
	eventType string
	maxEvents int
	format    string
	output    string
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Fetch your GitLab or GitHub activity",
	Long: `Fetch the contribution events of the authenticated user.

By default the last month is fetched. Use --months and --days to look
further back, or --current-month / --previous-month for a calendar month.

Examples:
  worklog activity --current-month
  worklog activity --source github --days 7 --format json -o activity.json
  worklog activity -p --event-type pushed`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(activityFlags.format, report.FormatText, report.FormatJSON, report.FormatCSV)
		if err != nil {
			return err
		}
		window, err := activityWindow.Window(time.Now())
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		source := cmp.Or(activityFlags.source, cfg.Reconcile.ActivitySource)
		if _, err := app.Clients.RequireActivity(source); err != nil {
			return err
		}

		activity, err := app.Service.FetchActivity(cmd.Context(), source, window, activityFlags.eventType, activityFlags.maxEvents)
		if err != nil {
			return err
		}

		out, closeOut, err := cli.OpenOutput(activityFlags.output)
		if err != nil {
			return err
		}
		defer func() { _ = closeOut() }()

		if err := report.Activity(out, report.DetectFormat(format, out), activity); err != nil {
			return err
		}
		if activityFlags.output != "" {
			fmt.Fprintf(os.Stderr, "Activity written to %s\n", activityFlags.output)
		}
		return nil
	},
}

var activityWindow *cli.WindowFlags

func init() {
	rootCmd.AddCommand(activityCmd)
	activityWindow = cli.RegisterWindowFlags(activityCmd, true)
	activityCmd.Flags().StringVarP(&activityFlags.source, "source", "s", "", "activity source: gitlab or github (default from config)")
	activityCmd.Flags().StringVarP(&activityFlags.eventType, "event-type", "e", "", "only events whose action contains this text")
	activityCmd.Flags().IntVar(&activityFlags.maxEvents, "max", 0, "maximum events to fetch (0 = all)")
	activityCmd.Flags().StringVarP(&activityFlags.format, "format", "f", "", "output format: text, json or csv (default text on a terminal, json otherwise)")
	activityCmd.Flags().StringVarP(&activityFlags.output, "output", "o", "", "write to this file instead of stdout")
}
