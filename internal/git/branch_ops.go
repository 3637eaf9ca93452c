package git

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Commit is a summary of a single commit
type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
}

// Subject returns the first line of the commit message
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return subject
}

// ShortSHA returns the abbreviated commit SHA
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

func (r *realRunner) GetRepoRoot(_ context.Context) (string, error) {
	repo, err := r.repository()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return repo.GetRepoRoot(), nil
}

func (r *realRunner) GetCurrentBranch(_ context.Context) (string, error) {
	repo, err := r.repository()
	if err != nil {
		return "", err
	}
	return repo.GetCurrentBranch()
}

func (r *realRunner) GetCurrentCommit(_ context.Context) (string, error) {
	repo, err := r.repository()
	if err != nil {
		return "", err
	}
	return repo.GetHeadCommit()
}

func (r *realRunner) IsWorkingTreeClean(ctx context.Context) (bool, error) {
	// Untracked files do not block a rebase, so they are ignored
	output, err := r.cmd.Run(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return output == "", nil
}

func (r *realRunner) BranchExists(_ context.Context, branchName string) (bool, error) {
	repo, err := r.repository()
	if err != nil {
		return false, err
	}
	return repo.HasBranch(branchName)
}

func (r *realRunner) GetAllBranchNames(_ context.Context) ([]string, error) {
	repo, err := r.repository()
	if err != nil {
		return nil, err
	}
	return repo.GetBranchNames()
}

// CreateAndCheckoutBranch creates a branch at startPoint (HEAD when empty) and checks it out
func (r *realRunner) CreateAndCheckoutBranch(ctx context.Context, branchName, startPoint string) error {
	args := []string{"checkout", "-b", branchName}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

func (r *realRunner) CheckoutBranch(ctx context.Context, branchName string) error {
	if _, err := r.cmd.Run(ctx, "checkout", branchName); err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

func (r *realRunner) DeleteBranch(ctx context.Context, branchName string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := r.cmd.Run(ctx, "branch", flag, branchName); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

func (r *realRunner) GetCommitsBetween(_ context.Context, from, to string) ([]Commit, error) {
	repo, err := r.repository()
	if err != nil {
		return nil, err
	}
	commits, err := repo.CommitsBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits %s..%s: %w", from, to, err)
	}

	result := make([]Commit, 0, len(commits))
	for _, c := range commits {
		result = append(result, Commit{
			SHA:     c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			Author:  c.Author.Name,
			Date:    c.Author.When,
		})
	}
	return result, nil
}
