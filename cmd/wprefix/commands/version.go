package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X wprefix/cmd/wprefix/commands.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wprefix %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
