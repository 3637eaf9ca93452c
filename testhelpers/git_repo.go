package testhelpers

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// isolatedEnv keeps the developer's global git config out of test repos
var isolatedEnv = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")

// GitRepo is a throwaway working repository driven through the git binary
type GitRepo struct {
	Dir string
}

// NewGitRepo runs 'git init' in dir with trunk "main" and a fixed identity
func NewGitRepo(dir string) (*GitRepo, error) {
	if _, err := gitIn("", "-c", "core.autocrlf=false", "init", "-b", "main", dir); err != nil {
		return nil, err
	}
	repo := &GitRepo{Dir: dir}
	for key, value := range map[string]string{
		"user.name":  "Test User",
		"user.email": "test@example.com",
	} {
		if err := repo.RunGitCommand("config", key, value); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func gitIn(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = isolatedEnv
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// RunGitCommand runs git in the repository, discarding output
func (r *GitRepo) RunGitCommand(args ...string) error {
	_, err := gitIn(r.Dir, args...)
	return err
}

// RunGitCommandAndGetOutput runs git in the repository and returns trimmed
// stdout
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	return gitIn(r.Dir, args...)
}

// changeFile is the file a change with prefix writes to
func (r *GitRepo) changeFile(prefix string) string {
	name := "test.txt"
	if prefix != "" {
		name = prefix + "_" + name
	}
	return filepath.Join(r.Dir, name)
}

// CreateChange writes textValue to the prefix's file and stages it unless
// unstaged is set
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	path := r.changeFile(prefix)
	if err := os.WriteFile(path, []byte(textValue), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if unstaged {
		return nil
	}
	return r.RunGitCommand("add", path)
}

// CreateChangeAndCommit writes a change and commits it with textValue as the
// message
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-m", textValue)
}

// CreateAndCheckoutBranch branches from HEAD and checks the branch out
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out an existing branch
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", name)
}

// RebaseInProgress reports whether git left rebase state behind
func (r *GitRepo) RebaseInProgress() bool {
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.Dir, ".git", dir)); err == nil {
			return true
		}
	}
	return false
}

// CurrentBranchName returns the checked-out branch, empty when detached
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}

// ListCurrentBranchCommitMessages returns the subjects reachable from HEAD,
// newest first
func (r *GitRepo) ListCurrentBranchCommitMessages() ([]string, error) {
	out, err := r.RunGitCommandAndGetOutput("log", "--format=%s")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// SquashMergeBranch lands mergeIn on the current branch as one new commit,
// the way a hosted squash merge does
func (r *GitRepo) SquashMergeBranch(mergeIn, message string) error {
	if err := r.RunGitCommand("merge", "--squash", mergeIn); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-m", message)
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

// CreateBareRemote creates a bare repository next to the working one and
// adds it as remote name. It returns the bare repository's path.
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	bareDir := r.Dir + "-" + name + ".git"
	if _, err := gitIn("", "init", "--bare", bareDir); err != nil {
		return "", err
	}
	if err := r.RunGitCommand("remote", "add", name, bareDir); err != nil {
		return "", err
	}
	return bareDir, nil
}

// PushBranch pushes branch to remote and sets its upstream
func (r *GitRepo) PushBranch(remote, branch string) error {
	return r.RunGitCommand("push", "-u", remote, branch)
}

// GetRevision resolves rev to a commit hash
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", rev)
}

// GetLocalBranches lists local branch names
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	out, err := r.RunGitCommandAndGetOutput("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// IsAncestor reports whether ancestor is reachable from descendant
func (r *GitRepo) IsAncestor(ancestor, descendant string) (bool, error) {
	_, err := gitIn(r.Dir, "merge-base", "--is-ancestor", ancestor, descendant)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
		return false, nil
	default:
		return false, err
	}
}
