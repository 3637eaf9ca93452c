package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newTrackCmd creates the track command
func newTrackCmd() *cobra.Command {
	var (
		stackName string
		parent    string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "track [branch]",
		Short: "Add an existing branch to a stack",
		Long: `Add the current (or provided) branch to a stack.

With --parent the branch is recorded under that parent. Without it the branch
follows the last branch of the stack, or its base when the stack is empty.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.TrackAction(ctx, actions.TrackOptions{
					BranchName: firstArg(args),
					Stack:      stackName,
					Parent:     parent,
					Force:      force,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&stackName, "stack", "s", "", "The stack to add the branch to. Defaults to the stack of --parent.")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "The branch's parent: the stack's base or one of its branches.")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip checking that the parent is an ancestor of the branch.")

	return cmd
}
