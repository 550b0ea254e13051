package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/config"
)

var (
	// configPath to an optional YAML configuration file.
	configPath string

	// Version is injected at build time via ldflags.
	Version = "dev"

	rootCmd = &cobra.Command{
		Use:   "dailymate",
		Short: "Reminder and alarm service for DailyMate.",
		Long: `Runs the DailyMate reminder service: it watches stored reminders, rings
an alarm on connected pages at the scheduled minute and records dismissals
and snoozes.

Configuration comes from built-in defaults, an optional YAML file and
DAILYMATE_* environment variables, in that order.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the dailymate CLI and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")

	rootCmd.AddCommand(serveCmd, remindersCmd, vapidCmd, &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})
}
