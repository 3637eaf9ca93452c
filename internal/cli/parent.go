package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newParentCmd creates the parent command
func newParentCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "parent [branch]",
		Short:             "Show the parent of a branch",
		Long:              "Show the parent of a branch, or the trunk for branches outside any stack.",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ParentAction(ctx, firstArg(args))
			})
		},
	}
}
