package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// LogAction renders every stack of the repository as a tree, with commit
// counts relative to each branch's parent
func LogAction(ctx *runtime.Context) error {
	names, err := ctx.Stacks.StackNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ctx.Splog.Info("No stacks yet. Create one with %s.", tui.ColorCyan("gitstack stack new <name>"))
		return nil
	}

	current, _ := ctx.Git.GetCurrentBranch(ctx.Context)

	for i, name := range names {
		tree, err := ctx.Stacks.BuildTree(name)
		if err != nil {
			return err
		}
		if i > 0 {
			ctx.Splog.Newline()
		}
		ctx.Splog.Page(tui.RenderStackTree(name, tree, tui.TreeOptions{
			Index:    i,
			Current:  current,
			Annotate: func(branch string) string { return commitSummary(ctx, branch) },
		}))
	}
	return nil
}

func commitSummary(ctx *runtime.Context, branch string) string {
	parent, err := ctx.Stacks.ParentOf(branch)
	if err != nil {
		return ""
	}
	commits, err := ctx.Git.GetCommitsBetween(ctx.Context, parent, branch)
	if err != nil {
		ctx.Splog.Debug("Failed to count commits of %s: %v", branch, err)
		return tui.ColorYellow("(missing)")
	}
	if len(commits) == 1 {
		return tui.ColorDim("1 commit")
	}
	return tui.ColorDim(fmt.Sprintf("%d commits", len(commits)))
}
