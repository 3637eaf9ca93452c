package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
)

// newRestackCmd creates the restack command
func newRestackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restack",
		Short: "Rebase every branch above the current one in its stack",
		Long: `Rebase every branch above the current one in its stack, each onto the
branch before it.

If a conflict is hit, the restack pauses. Resolve it and run
'gitstack continue', or run 'gitstack abort' to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.RestackAction)
		},
	}
}
