package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "agentshell",
	Short:         "agentshell – persistent shell, file-edit, and context backend for coding agents",
	Long:          "agentshell runs a persistent PTY shell, a SEARCH/REPLACE file-edit engine, and session state for a coding agent, driven by newline-delimited JSON requests.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
