// Package cli implements the command-line interface. It is a driving
// adapter: commands wire configuration and infrastructure adapters to the
// core services and invoke them.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexpert-ai/lexpert/internal/logger"
)

var (
	version = "dev"

	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lexpert",
	Short: "Legal document retrieval and grounded answering",
	Long: `Lexpert ingests legal documents into a vector-searchable store and
answers questions grounded in the retrieved passages, with citations.

Run "lexpert serve" to start the HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.lexpert/config.toml)")
}

// Execute runs the root command. The version string is stamped by the
// build and shown by the version subcommand.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
