package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var trunk string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize gitstack in the current repository",
		Long: `Initialize gitstack in the current repository.

Records the trunk branch in .git/.gitstack_config. Without --trunk, the first
of the configured trunk, main, or master that exists is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunUninitialized(cmd, func(ctx *runtime.Context) error {
				return actions.InitAction(ctx, actions.InitOptions{Trunk: trunk})
			})
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "The name of your trunk branch")
	_ = cmd.RegisterFlagCompletionFunc("trunk", common.CompleteBranches)

	return cmd
}
