package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newChildrenCmd creates the children command
func newChildrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "children [branch]",
		Short:             "Show the children of a branch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ChildrenAction(ctx, firstArg(args))
			})
		},
	}
}
