// Package common provides shared helper functions for CLI commands.
package common

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// Run is a helper that provides a runtime context to a command's execution
// function. The repository must have been initialized.
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	return run(cmd, false, fn)
}

// RunUninitialized is Run for commands that work before 'gitstack init'
func RunUninitialized(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	return run(cmd, true, fn)
}

func run(cmd *cobra.Command, allowUninitialized bool, fn func(ctx *runtime.Context) error) error {
	splog, err := tui.NewSplogWithConfig(tui.GetLogFilePath())
	if err != nil {
		// File logging is optional
		splog = tui.NewSplog()
	}
	defer splog.Close()

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		splog.SetQuiet(true)
	}

	ctx, err := runtime.GetContext(cmd.Context(), splog, allowUninitialized)
	if err != nil {
		return err
	}
	splog.Debug("Running %s", cmd.CommandPath())
	return fn(ctx)
}

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	branches, err := git.NewRealRunner("").GetAllBranchNames(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}
