package actions

import (
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/stack"
)

// branchOrCurrent returns branch, or the checked-out branch when empty
func branchOrCurrent(ctx *runtime.Context, branch string) (string, error) {
	if branch != "" {
		return branch, nil
	}
	current, err := ctx.Git.GetCurrentBranch(ctx.Context)
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if current == "" {
		return "", fmt.Errorf("not on a branch (detached HEAD)")
	}
	return current, nil
}

// requireStack returns the stack that has branch as a member
func requireStack(ctx *runtime.Context, branch string) (string, *stack.Record, error) {
	name, rec, err := ctx.Stacks.Find(branch)
	if err != nil {
		return "", nil, err
	}
	if rec == nil {
		return "", nil, fmt.Errorf("%w: %s", gserrors.ErrNotStaged, branch)
	}
	return name, rec, nil
}

// stackIndex returns the position of name among the sorted stack names, used
// to pick a stable colour
func stackIndex(ctx *runtime.Context, name string) int {
	names, err := ctx.Stacks.StackNames()
	if err != nil {
		return 0
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}
