package git

import (
	"context"
	"fmt"
)

// GetMergeBase returns the merge base between two refs, or "" when they
// share no history
func (r *realRunner) GetMergeBase(_ context.Context, ref1, ref2 string) (string, error) {
	repo, err := r.repository()
	if err != nil {
		return "", err
	}
	base, err := repo.MergeBase(ref1, ref2)
	if err != nil {
		return "", fmt.Errorf("failed to get merge base of %s and %s: %w", ref1, ref2, err)
	}
	return base, nil
}

// IsAncestor checks if the first ref is an ancestor of the second ref
func (r *realRunner) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	repo, err := r.repository()
	if err != nil {
		return false, err
	}
	ok, err := repo.IsAncestor(ancestor, descendant)
	if err != nil {
		return false, fmt.Errorf("failed to check ancestry of %s in %s: %w", ancestor, descendant, err)
	}
	return ok, nil
}
