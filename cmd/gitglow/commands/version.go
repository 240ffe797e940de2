package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glowstack/gitglow/pkg/version"
)

// NewVersionCommand creates the version subcommand.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitglow %s\n", version.String())
		},
	}
}
