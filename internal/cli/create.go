package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	var (
		stackName string
		parent    string
	)

	cmd := &cobra.Command{
		Use:     "create [name]",
		Aliases: []string{"c"},
		Short:   "Create a new branch stacked on top of the current branch",
		Long: `Create a new branch from its parent, check it out, and record it in the
parent's stack.

When the parent is not part of a stack yet, pass --stack to name one; it is
created on the parent. If no name is given you are prompted for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.CreateOptions{
				Stack:  stackName,
				Parent: parent,
			}
			if len(args) > 0 {
				opts.BranchName = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CreateAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&stackName, "stack", "s", "", "The stack to add the branch to. Created on the parent when missing.")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "The parent branch. Defaults to the current branch.")
	_ = cmd.RegisterFlagCompletionFunc("parent", common.CompleteBranches)

	return cmd
}
