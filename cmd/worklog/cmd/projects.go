package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/report"
)

var projectsFormat string

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects of the Toggl workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(projectsFormat, report.FormatText, report.FormatJSON)
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

		projects, err := app.Service.Projects(cmd.Context())
		if err != nil {
			return err
		}

		if report.DetectFormat(format, os.Stdout) == report.FormatJSON {
			return report.WriteJSON(os.Stdout, projects)
		}
		return report.ProjectsText(os.Stdout, projects)
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.Flags().StringVarP(&projectsFormat, "format", "f", "", "output format: text or json (default text on a terminal, json otherwise)")
}
