package git

import (
	"context"
	"fmt"
	"strconv"
)

// CountUnmergedPatches returns how many non-merge commits on branchName have
// no patch-equivalent commit on reference. Squash and cherry-pick merges
// count as merged because the comparison is by patch identity.
func (r *realRunner) CountUnmergedPatches(ctx context.Context, reference, branchName string) (int, error) {
	output, err := r.cmd.Run(ctx, "rev-list", "--count", "--right-only", "--cherry-pick", "--no-merges",
		reference+"..."+branchName)
	if err != nil {
		return 0, fmt.Errorf("failed to count unmerged commits of %s against %s: %w", branchName, reference, err)
	}

	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}
	return count, nil
}
