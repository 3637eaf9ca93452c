package git

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// RunnerOption configures a real runner
type RunnerOption func(*realRunner)

// WithRemote pins the remote used for identity, fetch, push and pull
func WithRemote(name string) RunnerOption {
	return func(r *realRunner) {
		r.remote = name
	}
}

// GetRemote returns the remote name to use: the configured one, else the
// current branch's upstream remote, else "origin" (or the only remote)
func (r *realRunner) GetRemote(ctx context.Context) string {
	if r.remote != "" {
		return r.remote
	}

	if branch, err := r.GetCurrentBranch(ctx); err == nil {
		if remote, err := r.cmd.Run(ctx, "config", "--get", "branch."+branch+".remote"); err == nil && remote != "" && remote != "." {
			return remote
		}
	}

	repo, err := r.repository()
	if err != nil {
		return DefaultRemote
	}
	names, err := repo.GetRemoteNames()
	if err != nil || len(names) == 0 || slices.Contains(names, DefaultRemote) {
		return DefaultRemote
	}
	return names[0]
}

// GetRemoteIdentity returns the URL of the remote, or "" when the repository
// has no such remote. The URL identifies the repository in the stacks file.
func (r *realRunner) GetRemoteIdentity(ctx context.Context) (string, error) {
	repo, err := r.repository()
	if err != nil {
		return "", err
	}
	return repo.GetRemoteURL(r.GetRemote(ctx))
}

// GetRemoteBranches returns branch names present on the remote, without the
// remote prefix
func (r *realRunner) GetRemoteBranches(ctx context.Context) ([]string, error) {
	repo, err := r.repository()
	if err != nil {
		return nil, err
	}
	refs, err := repo.GetRemoteBranchNames()
	if err != nil {
		return nil, err
	}

	prefix := r.GetRemote(ctx) + "/"
	var branches []string
	for _, ref := range refs {
		name, ok := strings.CutPrefix(ref, prefix)
		if !ok || name == "HEAD" {
			continue
		}
		branches = append(branches, name)
	}
	return branches, nil
}

// Fetch fetches and prunes the remote
func (r *realRunner) Fetch(ctx context.Context) error {
	remote := r.GetRemote(ctx)
	if _, err := r.cmd.Run(ctx, "fetch", "--prune", remote); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}
