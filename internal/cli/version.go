package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AppVersion is set at build time via -ldflags; it stays "dev" otherwise.
var AppVersion = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print agentshell version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(AppVersion)
	},
}
