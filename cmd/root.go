// Package cmd provides the command-line interface for sprintlens.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/sprintlens/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sprintlens",
	Short: "Sprintlens loads Jira exports into Postgres and reports sprint metrics",
	Long: `Sprintlens ingests Jira issue exports (CSV or XLSX, English or Spanish
headers, comma or semicolon delimited), reconciles each issue's sprint history
into a planned sprint and a done sprint, and replaces a Postgres table with the
result. Report views on that table provide velocity, rollover, epic completion
and lead time per sprint.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			logging.SetupLogger(os.Stderr, logging.LogLevel(level))
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reportCmd)
}
