package actions

import (
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// AbortOptions contains options for the abort command
type AbortOptions struct {
	Force bool
}

// AbortAction cancels a paused restack. The paused branch stays checked out
// at its original commit; branches already rebased keep their new position.
func AbortAction(ctx *runtime.Context, opts AbortOptions) error {
	state, err := ctx.CascadeState.Get()
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("%w: nothing to abort", gserrors.ErrNoCascadeInProgress)
	}

	// Confirm unless force is used
	if !opts.Force {
		msg := fmt.Sprintf("Abort restacking %s? Branches already restacked stay restacked.", state.StackName)
		confirmed, err := tui.PromptConfirm(msg, false)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !confirmed {
			ctx.Splog.Info("Abort canceled.")
			return nil
		}
	}

	result, err := ctx.Cascade.Abort(ctx.Context)
	if err != nil {
		return err
	}
	ctx.Splog.Info("Restack aborted at %s.", tui.ColorBranchName(result.PausedBranch, true))
	if n := len(result.Processed); n > 0 {
		ctx.Splog.Info("%d %s already restacked keep their new position.", n, pluralize("branch", n))
	}
	return nil
}
