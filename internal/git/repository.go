package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// goGitMu serializes go-git object access; packfile readers are not safe
// for concurrent use.
var goGitMu sync.Mutex

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	path string
}

// OpenRepository opens the git repository containing the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	root := absPath
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{
		Repository: repo,
		path:       root,
	}, nil
}

// GetRepoRoot returns the root directory of the repository
func (r *Repository) GetRepoRoot() string {
	return r.path
}

// GetBranchNames returns all local branch names, sorted
func (r *Repository) GetBranchNames() ([]string, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// HasBranch reports whether a local branch exists
func (r *Repository) HasBranch(name string) (bool, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	_, err := r.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// GetCurrentBranch returns the current branch name
func (r *Repository) GetCurrentBranch() (string, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}

// GetHeadCommit returns the SHA HEAD points at
func (r *Repository) GetHeadCommit() (string, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// GetRemoteURL returns the first URL configured for the named remote, or ""
func (r *Repository) GetRemoteURL(name string) (string, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	remote, err := r.Remote(name)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// GetRemoteNames returns the configured remote names, sorted
func (r *Repository) GetRemoteNames() ([]string, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	remotes, err := r.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	sort.Strings(names)
	return names, nil
}

// GetRemoteBranchNames returns "remote/branch" names for remote-tracking refs
func (r *Repository) GetRemoteBranchNames() ([]string, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	refs, err := r.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() && ref.Type() == plumbing.HashReference {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// MergeBase returns the best common ancestor of two refs, or "" when the
// histories are unrelated
func (r *Repository) MergeBase(ref1, ref2 string) (string, error) {
	hash1, err := r.resolveRefHash(ref1)
	if err != nil {
		return "", err
	}
	hash2, err := r.resolveRefHash(ref2)
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit1, err := r.CommitObject(hash1)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", ref1, err)
	}
	commit2, err := r.CommitObject(hash2)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", ref2, err)
	}

	mergeBases, err := commit1.MergeBase(commit2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(mergeBases) == 0 {
		return "", nil
	}
	return mergeBases[0].Hash.String(), nil
}

// IsAncestor reports whether ancestor is reachable from descendant
func (r *Repository) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorHash, err := r.resolveRefHash(ancestor)
	if err != nil {
		return false, err
	}
	descendantHash, err := r.resolveRefHash(descendant)
	if err != nil {
		return false, err
	}

	if ancestorHash == descendantHash {
		return true, nil
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	ancestorCommit, err := r.CommitObject(ancestorHash)
	if err != nil {
		return false, fmt.Errorf("failed to get commit %s: %w", ancestor, err)
	}
	descendantCommit, err := r.CommitObject(descendantHash)
	if err != nil {
		return false, fmt.Errorf("failed to get commit %s: %w", descendant, err)
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}

// CommitsBetween returns commits reachable from head but not from base,
// newest first. An empty base lists the full history of head.
func (r *Repository) CommitsBetween(base, head string) ([]*object.Commit, error) {
	headHash, err := r.resolveRefHash(head)
	if err != nil {
		return nil, err
	}

	exclude := make(map[plumbing.Hash]bool)
	if base != "" {
		baseHash, err := r.resolveRefHash(base)
		if err != nil {
			return nil, err
		}
		if err := r.walk(baseHash, func(c *object.Commit) { exclude[c.Hash] = true }, nil); err != nil {
			return nil, err
		}
	}

	var commits []*object.Commit
	err = r.walk(headHash, func(c *object.Commit) { commits = append(commits, c) }, exclude)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Committer.When.After(commits[j].Committer.When)
	})
	return commits, nil
}

// walk visits every commit reachable from start, skipping the excluded set.
func (r *Repository) walk(start plumbing.Hash, visit func(*object.Commit), exclude map[plumbing.Hash]bool) error {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	visited := make(map[plumbing.Hash]bool)
	queue := []plumbing.Hash{start}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if visited[hash] || exclude[hash] {
			continue
		}
		visited[hash] = true

		commit, err := r.CommitObject(hash)
		if err != nil {
			return fmt.Errorf("failed to get commit %s: %w", hash, err)
		}
		visit(commit)

		queue = append(queue, commit.ParentHashes...)
	}
	return nil
}

// resolveRefHash resolves a ref (branch name, SHA, or ref path) to a hash
func (r *Repository) resolveRefHash(ref string) (plumbing.Hash, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	candidates := []plumbing.ReferenceName{
		plumbing.ReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
		plumbing.ReferenceName("refs/remotes/" + ref),
		plumbing.NewTagReferenceName(ref),
	}
	for _, name := range candidates {
		if rf, err := r.Reference(name, true); err == nil {
			return rf.Hash(), nil
		}
	}

	// Handles SHAs, short SHAs, and expressions like HEAD~1
	hash, err := r.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref %s: reference not found", ref)
}
