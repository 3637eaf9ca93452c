package actions

import (
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/mergecheck"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// SyncOptions contains options for the sync command
type SyncOptions struct {
	// Force deletes merged branches without prompting
	Force bool
	// NoFetch skips fetching from the remote
	NoFetch bool
}

// SyncAction updates trunk from the remote and deletes local branches whose
// changes have landed on the merge reference
func SyncAction(ctx *runtime.Context, opts SyncOptions) error {
	splog := ctx.Splog
	trunk := ctx.Config.TrunkName()

	clean, err := ctx.Git.IsWorkingTreeClean(ctx.Context)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: commit or stash them before syncing", gserrors.ErrDirtyTree)
	}

	if !opts.NoFetch && ctx.RepoID != "" {
		err := tui.RunWithSpinner(splog, "Fetching from remote...", func() error {
			return ctx.Git.Fetch(ctx.Context)
		})
		if err != nil {
			splog.Warn("Fetch failed, continuing with local refs: %v", err)
		}
	}

	if ctx.RepoID != "" {
		pullTrunk(ctx, trunk)
	}

	reference := ctx.Config.Reference()
	branches, err := ctx.Git.GetAllBranchNames(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	detector := mergecheck.NewDetector(ctx.Git, ctx.Config.Concurrency())
	var report *mergecheck.Report
	err = tui.RunWithSpinner(splog, "Checking for merged branches...", func() error {
		var runErr error
		report, runErr = detector.Run(ctx.Context, reference, branches, ctx.Config.AllTrunks())
		return runErr
	})
	if err != nil {
		return fmt.Errorf("failed to check merged branches: %w", err)
	}

	if err := CleanBranches(ctx, report.Merged, CleanBranchesOptions{Force: opts.Force}); err != nil {
		return fmt.Errorf("failed to clean branches: %w", err)
	}

	printUnmerged(ctx, report)
	return nil
}

// pullTrunk fast-forwards trunk. Failures are reported, never fatal.
func pullTrunk(ctx *runtime.Context, trunk string) {
	splog := ctx.Splog
	splog.Info("Pulling %s from remote...", tui.ColorBranchName(trunk, false))

	result, err := ctx.Git.PullBranch(ctx.Context, trunk)
	if err != nil {
		splog.Warn("Could not pull %s: %v", trunk, err)
		return
	}

	switch result {
	case git.PullDone:
		splog.Info("%s fast-forwarded.", tui.ColorBranchName(trunk, false))
	case git.PullUnneeded:
		splog.Info("%s is up to date.", tui.ColorBranchName(trunk, false))
	case git.PullConflict:
		splog.Warn("%s could not be fast-forwarded; it has diverged from the remote.", tui.ColorBranchName(trunk, false))
	}
}

func printUnmerged(ctx *runtime.Context, report *mergecheck.Report) {
	if len(report.Unmerged) == 0 {
		return
	}
	ctx.Splog.Newline()
	ctx.Splog.Info("%s", tui.ColorYellow(fmt.Sprintf("Not merged into %s:", report.Reference)))
	for _, v := range report.Unmerged {
		detail := string(v.Reason)
		switch {
		case v.Err != nil:
			detail = fmt.Sprintf("%s: %v", v.Reason, v.Err)
		case v.Reason == mergecheck.ReasonUnmergedChanges:
			detail = fmt.Sprintf("%d unmerged %s", v.UnmergedCount, pluralize("commit", v.UnmergedCount))
		}
		ctx.Splog.Info("  %s %s", tui.ColorBranchName(v.Branch, false), tui.ColorDim("("+detail+")"))
	}
}
