// Package stack provides CLI commands for operating on entire stacks.
package stack

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// NewStackCmd creates the stack command and its subcommands
func NewStackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Create, list, and show stacks",
	}
	cmd.AddCommand(newNewCmd(), newListCmd(), newShowCmd())
	return cmd
}

func newNewCmd() *cobra.Command {
	var opts actions.StackNewOptions

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty stack",
		Long: `Create an empty stack on a base branch, the current branch by default.

An existing stack with the same name is only replaced with --force or after
confirming.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.StackNewAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Base, "base", "b", "", "The base branch. Defaults to the current branch.")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Replace an existing stack with the same name.")
	_ = cmd.RegisterFlagCompletionFunc("base", common.CompleteBranches)

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the stacks of this repository",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.StackListAction)
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show a stack as a tree, by default the current branch's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts actions.StackShowOptions
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.StackShowAction(ctx, opts)
			})
		},
	}
}
