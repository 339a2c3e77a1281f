// Package commands implements fpindex's cobra command tree: build,
// query, serve, watch, and browse.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/soundhash/fpindex/logging"
)

const version = "0.1.0"

var (
	logLevelFlag string
	log          *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "fpindex",
	Short:   "fpindex - in-memory inverted index for audio fingerprint codes",
	Long:    "fpindex builds, queries, serves, and watches inverted-index block files over audio fingerprint codes.",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logging.New(logLevelFlag)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(browseCmd)
}
