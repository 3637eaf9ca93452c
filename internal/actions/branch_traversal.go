package actions

import (
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// ParentAction prints the resolved parent of a branch. Branches outside any
// stack report the trunk.
func ParentAction(ctx *runtime.Context, branchName string) error {
	branch, err := branchOrCurrent(ctx, branchName)
	if err != nil {
		return err
	}
	parent, err := ctx.Stacks.ParentOf(branch)
	if err != nil {
		return err
	}
	ctx.Splog.Page(parent + "\n")
	return nil
}

// ChildrenAction prints the branches whose parent is the given branch
func ChildrenAction(ctx *runtime.Context, branchName string) error {
	branch, err := branchOrCurrent(ctx, branchName)
	if err != nil {
		return err
	}
	children, err := ctx.Stacks.ChildrenOf(branch)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		ctx.Splog.Info("%s has no children.", tui.ColorBranchName(branch, false))
		return nil
	}
	for _, child := range children {
		ctx.Splog.Page(child + "\n")
	}
	return nil
}
