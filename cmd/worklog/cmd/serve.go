package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/cli"
)

var serveFlags cli.ServeFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded runs and snapshots over HTTP",
	Long: `Start the HTTP API over the database: recorded runs and their records,
import batches, ledger snapshots and their diffs, background reconcile
jobs, /health and Prometheus /metrics.

Requires storage to be enabled. Job and import endpoints also require
Toggl credentials.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		return cli.RunServe(app, serveFlags)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&serveFlags.Port, "port", 0, "port to listen on (default: api.port from config)")
}
