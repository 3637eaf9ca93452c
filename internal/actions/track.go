package actions

import (
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// TrackOptions contains options for the track command
type TrackOptions struct {
	BranchName string
	// Stack defaults to the stack that owns Parent
	Stack string
	// Parent is recorded as an explicit edge. Without it the branch follows
	// the last member of the stack.
	Parent string
	// Force skips the ancestry check
	Force bool
}

// TrackAction records an existing branch in a stack
func TrackAction(ctx *runtime.Context, opts TrackOptions) error {
	if err := ctx.RequireRepoID(); err != nil {
		return err
	}

	branch, err := branchOrCurrent(ctx, opts.BranchName)
	if err != nil {
		return err
	}
	exists, err := ctx.Git.BranchExists(ctx.Context, branch)
	if err != nil {
		return err
	}
	if !exists {
		return gserrors.NewBranchNotFoundError(branch)
	}

	stackName := opts.Stack
	if stackName == "" && opts.Parent != "" {
		stackName, _, err = ctx.Stacks.Find(opts.Parent)
		if err != nil {
			return err
		}
	}
	if stackName == "" {
		return fmt.Errorf("a stack is required to track %s (pass --stack)", branch)
	}

	rec, err := ctx.Stacks.Stack(stackName)
	if err != nil {
		return err
	}
	if rec.Contains(branch) {
		ctx.Splog.Info("%s is already in stack %s.", tui.ColorBranchName(branch, false),
			tui.ColorStackName(stackName, stackIndex(ctx, stackName)))
		return nil
	}

	parent := opts.Parent
	if parent == "" {
		parent = rec.BaseBranch
		if n := len(rec.Branches); n > 0 {
			parent = rec.Branches[n-1]
		}
	}

	if !opts.Force {
		ok, err := ctx.Git.IsAncestor(ctx.Context, parent, branch)
		if err != nil {
			return fmt.Errorf("failed to check ancestry: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s is not an ancestor of %s (use --force to override)", gserrors.ErrInvalidParent, parent, branch)
		}
	}

	if err := ctx.Stacks.AddBranch(stackName, branch, opts.Parent); err != nil {
		return err
	}

	ctx.Splog.Info("Tracked %s on %s in stack %s.",
		tui.ColorBranchName(branch, false),
		tui.ColorBranchName(parent, false),
		tui.ColorStackName(stackName, stackIndex(ctx, stackName)))
	return nil
}
