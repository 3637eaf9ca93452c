package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/cli/stack"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitstack",
		Short: "gitstack keeps chains of dependent branches rebased on each other",
		Long: `gitstack keeps chains of dependent branches rebased on each other.

Group branches into named stacks, restack everything above a branch after
changing it, clean up branches once they land, and open one pull request
per branch against its parent.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress console output.")

	rootCmd.AddCommand(
		newInitCmd(),
		stack.NewStackCmd(),
		newCreateCmd(),
		newTrackCmd(),
		newUntrackCmd(),
		newParentCmd(),
		newChildrenCmd(),
		newLogCmd(),
		newRestackCmd(),
		newContinueCmd(),
		newAbortCmd(),
		newSyncCmd(),
		newSubmitCmd(),
	)

	return rootCmd
}
