package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/cursor-search/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cursor-search",
	Short: "Search Cursor IDE conversations across all storage formats",
	Long: `A CLI tool to search chat and composer conversations stored by Cursor IDE.

It scans both the unified globalStorage database and the legacy
per-workspace databases, normalizes their different record shapes,
attributes each conversation to a workspace, and returns results
ranked by recency.

Quick Start:
  cursor-search search "race condition"        # Search everything
  cursor-search search refactor --scope agent  # Agent conversations only
  cursor-search serve --addr :8765             # Expose an HTTP search API

For detailed usage, see: https://github.com/iksnae/cursor-search`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to the Cursor User directory)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
