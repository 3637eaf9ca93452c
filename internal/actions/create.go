package actions

import (
	"errors"
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/internal/utils"
)

// CreateOptions contains options for the create command
type CreateOptions struct {
	BranchName string
	// Stack is required when the parent is not already in a stack. A stack
	// that does not exist yet is created on the parent.
	Stack string
	// Parent defaults to the current branch
	Parent string
}

// CreateAction creates a branch from its parent, checks it out, and records
// it in the parent's stack with an explicit parent edge
func CreateAction(ctx *runtime.Context, opts CreateOptions) error {
	if err := ctx.RequireRepoID(); err != nil {
		return err
	}

	parent, err := branchOrCurrent(ctx, opts.Parent)
	if err != nil {
		return err
	}
	exists, err := ctx.Git.BranchExists(ctx.Context, parent)
	if err != nil {
		return err
	}
	if !exists {
		return gserrors.NewBranchNotFoundError(parent)
	}

	branchName := opts.BranchName
	if branchName == "" {
		branchName, err = tui.PromptInput("Branch name:", "", utils.ValidateBranchName)
		if err != nil {
			if errors.Is(err, tui.ErrInteractiveDisabled) {
				return fmt.Errorf("branch name is required")
			}
			return err
		}
	}
	if err := utils.ValidateBranchName(branchName); err != nil {
		return err
	}

	exists, err = ctx.Git.BranchExists(ctx.Context, branchName)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("branch %s already exists", branchName)
	}

	stackName, newStack, err := resolveCreateStack(ctx, opts.Stack, parent)
	if err != nil {
		return err
	}

	if err := ctx.Git.CreateAndCheckoutBranch(ctx.Context, branchName, parent); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	if newStack {
		if err := ctx.Stacks.CreateStack(stackName, parent, false); err != nil {
			undoCreateBranch(ctx, branchName, parent)
			return err
		}
		ctx.Splog.Debug("Created stack %s on %s", stackName, parent)
	}

	if err := ctx.Stacks.AddBranch(stackName, branchName, parent); err != nil {
		undoCreateBranch(ctx, branchName, parent)
		if newStack {
			if deleteErr := ctx.Stacks.DeleteStack(stackName); deleteErr != nil {
				ctx.Splog.Debug("Failed to delete stack %s after error: %v", stackName, deleteErr)
			}
		}
		return err
	}

	ctx.Splog.Info("Created %s on %s in stack %s.",
		tui.ColorBranchName(branchName, true),
		tui.ColorBranchName(parent, false),
		tui.ColorStackName(stackName, stackIndex(ctx, stackName)))
	return nil
}

// undoCreateBranch puts parent back and deletes the new branch
func undoCreateBranch(ctx *runtime.Context, branchName, parent string) {
	if err := ctx.Git.CheckoutBranch(ctx.Context, parent); err != nil {
		ctx.Splog.Debug("Failed to check out %s after error: %v", parent, err)
		return
	}
	if err := ctx.Git.DeleteBranch(ctx.Context, branchName, true); err != nil {
		ctx.Splog.Debug("Failed to delete %s after error: %v", branchName, err)
	}
}

// resolveCreateStack picks the stack for a new branch: the named stack, the
// stack parent belongs to, or the only stack based on parent. newStack is set
// when the named stack does not exist yet and must be created on parent.
func resolveCreateStack(ctx *runtime.Context, requested, parent string) (name string, newStack bool, err error) {
	owner, _, err := ctx.Stacks.Find(parent)
	if err != nil {
		return "", false, err
	}

	if requested == "" {
		if owner != "" {
			return owner, false, nil
		}
		based, err := stacksOnBase(ctx, parent)
		if err != nil {
			return "", false, err
		}
		if len(based) == 1 {
			return based[0], false, nil
		}
		return "", false, fmt.Errorf("%w: %s (pass --stack to choose or start a stack)", gserrors.ErrNotStaged, parent)
	}

	if owner != "" && owner != requested {
		return "", false, fmt.Errorf("%w: %s belongs to stack %s", gserrors.ErrInvalidParent, parent, owner)
	}

	if _, err := ctx.Stacks.Stack(requested); err != nil {
		if !errors.Is(err, gserrors.ErrStackNotFound) {
			return "", false, err
		}
		return requested, true, nil
	}
	return requested, false, nil
}

// stacksOnBase returns the names of the stacks based on branch, sorted
func stacksOnBase(ctx *runtime.Context, branch string) ([]string, error) {
	stacks, err := ctx.Stacks.Stacks()
	if err != nil {
		return nil, err
	}
	names, err := ctx.Stacks.StackNames()
	if err != nil {
		return nil, err
	}
	var based []string
	for _, name := range names {
		if rec := stacks[name]; rec != nil && rec.BaseBranch == branch {
			based = append(based, name)
		}
	}
	return based, nil
}
