package actions

import (
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// UntrackAction removes a branch from its stack without touching the branch
// itself. Untracking an unstaged branch is a no-op.
func UntrackAction(ctx *runtime.Context, branchName string) error {
	branch, err := branchOrCurrent(ctx, branchName)
	if err != nil {
		return err
	}

	stackName, _, err := ctx.Stacks.Find(branch)
	if err != nil {
		return err
	}
	if stackName == "" {
		ctx.Splog.Info("%s is not in a stack.", tui.ColorBranchName(branch, false))
		return nil
	}

	index := stackIndex(ctx, stackName)
	if err := ctx.Stacks.RemoveBranch(branch); err != nil {
		return err
	}
	ctx.Splog.Info("Removed %s from stack %s.", tui.ColorBranchName(branch, false), tui.ColorStackName(stackName, index))
	return nil
}
