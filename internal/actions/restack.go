package actions

import (
	"errors"
	"fmt"

	"gitstack.dev/gitstack/internal/cascade"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// RestackAction rebases every branch after the current one in its stack
func RestackAction(ctx *runtime.Context) error {
	result, err := ctx.Cascade.Start(ctx.Context)
	if errors.Is(err, gserrors.ErrDirtyTree) {
		return fmt.Errorf("%w: commit or stash your changes before restacking", err)
	}
	if errors.Is(err, gserrors.ErrCascadeInProgress) {
		return fmt.Errorf("%w: run 'gitstack continue' or 'gitstack abort' first", err)
	}
	return reportCascade(ctx, result, err)
}

// reportCascade prints the outcome of a cascade call. A paused cascade is
// reported as an error so the command exits non-zero.
func reportCascade(ctx *runtime.Context, result *cascade.Result, err error) error {
	if result != nil && result.Status == cascade.Paused {
		PrintConflictStatus(ctx, result.PausedBranch)
		return err
	}
	if err != nil {
		return err
	}

	switch result.Status {
	case cascade.NothingToDo:
		ctx.Splog.Info("Nothing to restack.")
	case cascade.Completed:
		ctx.Splog.Info("Restacked %d %s in %s.",
			len(result.Processed), pluralize("branch", len(result.Processed)),
			tui.ColorStackName(result.StackName, stackIndex(ctx, result.StackName)))
	}
	return nil
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	if word == "branch" {
		return "branches"
	}
	return word + "s"
}
