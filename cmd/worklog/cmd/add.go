package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/providers"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// runningDuration asks Toggl for a running entry
const runningDuration = -1

var addFlags struct {
	description string
	projectID   int64
	start       string
	duration    int
	tags        string
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single Toggl time entry",
	Long: `Add a single time entry to Toggl.

Without --start the entry starts now. Without --duration a running
entry is created.

Examples:
  worklog add -d "#123 Review login flow" -s "2024-03-04 09:00:00" -u 1800
  worklog add -d "Standup" -p 123456 -g meeting,daily`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := providers.NewEntry{
			Description: addFlags.description,
			ProjectID:   addFlags.projectID,
			Duration:    runningDuration,
			Tags:        splitTags(addFlags.tags),
		}
		if addFlags.start != "" {
			start, err := worklog.ParseTimestamp(addFlags.start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: expected YYYY-MM-DD HH:MM:SS", addFlags.start)
			}
			entry.Start = start
		} else {
			entry.Start = time.Now()
		}
		if cmd.Flags().Changed("duration") {
			if addFlags.duration <= 0 {
				return fmt.Errorf("--duration must be positive, got %d", addFlags.duration)
			}
			entry.Duration = addFlags.duration
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if err := app.Clients.RequireLedger(cfg); err != nil {
			return err
		}

		id, err := app.Service.AddEntry(cmd.Context(), entry)
		if err != nil {
			return err
		}
		fmt.Printf("Created time entry %d: %s\n", id, entry.Description)
		return nil
	},
}

// splitTags parses a comma-separated tag list, dropping empty tags
func splitTags(csv string) []string {
	var tags []string
	for _, tag := range strings.Split(csv, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addFlags.description, "description", "d", "", "description of the entry")
	addCmd.Flags().Int64VarP(&addFlags.projectID, "project", "p", 0, "Toggl project ID")
	addCmd.Flags().StringVarP(&addFlags.start, "start", "s", "", "start time, YYYY-MM-DD HH:MM:SS (default: now)")
	addCmd.Flags().IntVarP(&addFlags.duration, "duration", "u", 0, "duration in seconds (default: running entry)")
	addCmd.Flags().StringVarP(&addFlags.tags, "tags", "g", "", "comma-separated tags")
	_ = addCmd.MarkFlagRequired("description")
}
