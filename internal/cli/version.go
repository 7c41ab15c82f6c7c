package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/maptool/pkg/mapfile"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "maptool v%s (%s)\n", Version, GitCommit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "map format %s\n", mapfile.FormatVersion)
		},
	}
}
