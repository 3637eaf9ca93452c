package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

func (r RebaseResult) String() string {
	switch r {
	case RebaseDone:
		return "done"
	case RebaseConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Rebase checks out branchName and rebases it onto onto. A conflict leaves
// the rebase in progress and returns RebaseConflict with a nil error.
func (r *realRunner) Rebase(ctx context.Context, onto, branchName string) (RebaseResult, error) {
	_, err := r.cmd.Run(ctx, "rebase", onto, branchName)
	if err != nil {
		inProgress, checkErr := r.IsRebaseInProgress(ctx)
		if checkErr == nil && inProgress {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("failed to rebase %s onto %s: %w", branchName, onto, err)
	}
	return RebaseDone, nil
}

// RebaseContinue continues an in-progress rebase without opening an editor
func (r *realRunner) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := r.cmd.RunWithEnv(ctx, []string{"GIT_EDITOR=true"}, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		// Still in progress means another conflict or unresolved files
		inProgress, checkErr := r.IsRebaseInProgress(ctx)
		if checkErr == nil && inProgress {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}
	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func (r *realRunner) RebaseAbort(ctx context.Context) error {
	if _, err := r.cmd.Run(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// IsRebaseInProgress checks for the rebase-merge or rebase-apply directories
func (r *realRunner) IsRebaseInProgress(ctx context.Context) (bool, error) {
	gitDir, err := r.cmd.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false, fmt.Errorf("failed to locate git dir: %w", err)
	}

	for _, name := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(gitDir, name)); err == nil {
			return true, nil
		}
	}
	return false, nil
}

// GetUnmergedFiles returns the paths with unresolved conflicts
func (r *realRunner) GetUnmergedFiles(ctx context.Context) ([]string, error) {
	files, err := r.cmd.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	return files, nil
}
