package git

import (
	"context"
	"fmt"
)

// PullResult represents the result of a pull operation
type PullResult int

const (
	// PullDone indicates the pull was successful
	PullDone PullResult = iota
	// PullUnneeded indicates no pull was needed
	PullUnneeded
	// PullConflict indicates the local branch cannot be fast-forwarded
	PullConflict
)

func (p PullResult) String() string {
	switch p {
	case PullDone:
		return "done"
	case PullUnneeded:
		return "unneeded"
	case PullConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// PullBranch fast-forwards a local branch to its remote counterpart. The
// branch is never merged: a diverged branch yields PullConflict.
func (r *realRunner) PullBranch(ctx context.Context, branchName string) (PullResult, error) {
	remote := r.GetRemote(ctx)
	remoteRef := remote + "/" + branchName

	if _, err := r.cmd.Run(ctx, "fetch", remote, branchName); err != nil {
		return PullConflict, fmt.Errorf("failed to fetch %s: %w", remoteRef, err)
	}

	oldRev, err := r.cmd.Run(ctx, "rev-parse", "refs/heads/"+branchName)
	if err != nil {
		return PullConflict, fmt.Errorf("failed to resolve %s: %w", branchName, err)
	}
	newRev, err := r.cmd.Run(ctx, "rev-parse", "refs/remotes/"+remoteRef)
	if err != nil {
		return PullConflict, fmt.Errorf("failed to resolve %s: %w", remoteRef, err)
	}
	if oldRev == newRev {
		return PullUnneeded, nil
	}

	// Status 1 means diverged; anything else is a failure of git itself
	if _, err := r.cmd.Run(ctx, "merge-base", "--is-ancestor", oldRev, newRev); err != nil {
		if exitedWith(err, 1) {
			return PullConflict, nil
		}
		return PullConflict, fmt.Errorf("failed to compare %s with %s: %w", branchName, remoteRef, err)
	}

	current, _ := r.GetCurrentBranch(ctx)
	if current == branchName {
		if _, err := r.cmd.Run(ctx, "merge", "--ff-only", remoteRef); err != nil {
			return PullConflict, nil
		}
		return PullDone, nil
	}

	if _, err := r.cmd.Run(ctx, "update-ref", "refs/heads/"+branchName, newRev, oldRev); err != nil {
		return PullConflict, fmt.Errorf("failed to update %s: %w", branchName, err)
	}
	return PullDone, nil
}
