// Package cli wires the aict subcommands: training, chunked model
// application, dataset splitting and performance plotting.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jlzhang001/aict-tools/internal/logging"
)

var verbose bool

// rootCmd is the aict entry command; every subcommand registers itself
// in its own file's init.
var rootCmd = &cobra.Command{
	Use:          "aict",
	Short:        "Train and apply reconstruction models for astronomical event data",
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

func newLogger() zerolog.Logger {
	return logging.New(os.Stderr, verbose)
}
