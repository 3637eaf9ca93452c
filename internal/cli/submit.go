package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/cli/common"
	"gitstack.dev/gitstack/internal/runtime"
)

// newSubmitCmd creates the submit command
func newSubmitCmd() *cobra.Command {
	var opts actions.SubmitOptions

	cmd := &cobra.Command{
		Use:     "submit",
		Aliases: []string{"s"},
		Short:   "Push the current stack and open a pull request for each branch",
		Long: `Push every branch of the current stack and create or update one pull
request per branch, based on the branch's parent.

Pull requests need a GitHub token from GITHUB_TOKEN or 'gh auth token';
without one, branches are only pushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SubmitAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Draft, "draft", "d", false, "Create new pull requests as drafts.")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Force push, overwriting remote changes.")

	return cmd
}
