package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var opts actions.SyncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update trunk and delete branches that have been merged",
		Long: `Fetch from the remote, fast-forward trunk, and delete local branches whose
changes have already landed, including squash and rebase merges. Deleted
branches are removed from their stacks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SyncAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Delete merged branches without prompting.")
	cmd.Flags().BoolVar(&opts.NoFetch, "no-fetch", false, "Do not fetch from the remote first.")

	return cmd
}
