package actions

import (
	"errors"
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// StackNewOptions contains options for the stack new command
type StackNewOptions struct {
	Name  string
	Base  string
	Force bool
}

// StackNewAction creates an empty stack on a base branch. Replacing an
// existing stack needs --force or an interactive confirmation.
func StackNewAction(ctx *runtime.Context, opts StackNewOptions) error {
	if err := ctx.RequireRepoID(); err != nil {
		return err
	}

	base, err := branchOrCurrent(ctx, opts.Base)
	if err != nil {
		return err
	}
	exists, err := ctx.Git.BranchExists(ctx.Context, base)
	if err != nil {
		return err
	}
	if !exists {
		return gserrors.NewBranchNotFoundError(base)
	}

	err = ctx.Stacks.CreateStack(opts.Name, base, opts.Force)
	if errors.Is(err, gserrors.ErrStackExists) {
		confirmed, promptErr := tui.PromptConfirm(fmt.Sprintf("Stack %s already exists. Replace it?", opts.Name), false)
		if promptErr != nil || !confirmed {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		err = ctx.Stacks.CreateStack(opts.Name, base, true)
	}
	if err != nil {
		return err
	}

	ctx.Splog.Info("Created stack %s on %s.",
		tui.ColorStackName(opts.Name, stackIndex(ctx, opts.Name)),
		tui.ColorBranchName(base, false))
	return nil
}

// StackListAction prints every stack with its base and size
func StackListAction(ctx *runtime.Context) error {
	stacks, err := ctx.Stacks.Stacks()
	if err != nil {
		return err
	}
	names, err := ctx.Stacks.StackNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ctx.Splog.Info("No stacks yet. Create one with %s.", tui.ColorCyan("gitstack stack new <name>"))
		return nil
	}

	for i, name := range names {
		rec := stacks[name]
		ctx.Splog.Info("%s %s", tui.ColorStackName(name, i),
			tui.ColorDim(fmt.Sprintf("on %s, %d %s", rec.BaseBranch, len(rec.Branches), pluralize("branch", len(rec.Branches)))))
	}
	return nil
}

// StackShowOptions contains options for the stack show command
type StackShowOptions struct {
	Name string
}

// StackShowAction renders one stack, by default the current branch's
func StackShowAction(ctx *runtime.Context, opts StackShowOptions) error {
	current, err := branchOrCurrent(ctx, "")
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		name, _, err = requireStack(ctx, current)
		if err != nil {
			return err
		}
	}

	tree, err := ctx.Stacks.BuildTree(name)
	if err != nil {
		return err
	}
	ctx.Splog.Page(tui.RenderStackTree(name, tree, tui.TreeOptions{
		Index:   stackIndex(ctx, name),
		Current: current,
	}))
	return nil
}
