package actions

import (
	"errors"
	"fmt"

	"gitstack.dev/gitstack/internal/mergecheck"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// CleanBranchesOptions contains options for cleaning branches
type CleanBranchesOptions struct {
	Force bool
}

// CleanBranches deletes merged branches and removes them from their stacks.
// Trunk names are never deleted. When the checked-out branch is merged, trunk
// is checked out first.
func CleanBranches(ctx *runtime.Context, merged []mergecheck.Verdict, opts CleanBranchesOptions) error {
	splog := ctx.Splog
	if len(merged) == 0 {
		splog.Info("No merged branches to delete.")
		return nil
	}

	current, err := ctx.Git.GetCurrentBranch(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	trunk := ctx.Config.TrunkName()

	for _, v := range merged {
		branch := v.Branch
		if ctx.Config.IsTrunk(branch) {
			continue
		}

		if !opts.Force {
			confirmed, err := tui.PromptConfirm(fmt.Sprintf("%s is merged into %s. Delete it?", branch, ctx.Config.Reference()), true)
			if errors.Is(err, tui.ErrInteractiveDisabled) {
				splog.Info("Skipping %s (merged, pass --force to delete without prompting).", tui.ColorBranchName(branch, false))
				continue
			}
			if err != nil {
				return err
			}
			if !confirmed {
				continue
			}
		}

		if branch == current {
			if err := ctx.Git.CheckoutBranch(ctx.Context, trunk); err != nil {
				return fmt.Errorf("failed to check out %s before deleting %s: %w", trunk, branch, err)
			}
			current = trunk
		}

		if err := ctx.Git.DeleteBranch(ctx.Context, branch, true); err != nil {
			splog.Warn("Failed to delete %s: %v", branch, err)
			continue
		}
		if err := ctx.Stacks.RemoveBranch(branch); err != nil {
			return fmt.Errorf("deleted %s but failed to untrack it: %w", branch, err)
		}
		splog.Info("Deleted %s %s.", tui.ColorBranchName(branch, false), tui.ColorDim("("+string(v.Reason)+")"))
	}
	return nil
}
