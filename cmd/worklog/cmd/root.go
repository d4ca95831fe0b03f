package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/cli"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/config"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/logging"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "Reconcile GitLab or GitHub activity against Toggl time entries",
	Long: `worklog fetches your contribution activity from GitLab or GitHub and
your time entries from Toggl Track, shows which tasks you worked on but
never logged, and imports the missing time.

Configuration is read from config.yaml when present, otherwise from
environment variables (a .env file is loaded first).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.LoadOrEnv(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		loggingCfg := cfg.Observability.Logging
		if verbose {
			loggingCfg.Level = "debug"
		}
		logger = logging.NewLoggerWithSystem(loggingCfg, cmd.Name())
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// newApp wires providers, storage and the reconcile service
func newApp() (*cli.App, error) {
	return cli.NewApp(cfg, logger)
}

// resultPath places name in the configured result directory
func resultPath(name string) (string, error) {
	dir := cfg.Reconcile.ResultDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create result directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}

// outputPath resolves --output: empty means name in the result directory,
// a relative path is placed in the result directory too.
func outputPath(output, name string) (string, error) {
	if output != "" && filepath.IsAbs(output) {
		return output, nil
	}
	if output != "" {
		name = filepath.Base(output)
	}
	return resultPath(name)
}
