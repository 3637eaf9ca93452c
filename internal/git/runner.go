// Package git provides a wrapper around git commands and go-git for repository operations.
package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	gserrors "gitstack.dev/gitstack/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// DefaultRemote is used when no remote is configured
const DefaultRemote = "origin"

// ErrStaleRemoteInfo indicates that a push failed because the remote has changed
var ErrStaleRemoteInfo = errors.New("stale info")

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, nil, true, args...)
}

// RunWithEnv executes a git command with extra environment variables
func (r *CommandRunner) RunWithEnv(ctx context.Context, env []string, args ...string) (string, error) {
	return r.runInternal(ctx, env, true, args...)
}

// RunLines executes a git command and returns its output split into lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

func (r *CommandRunner) runInternal(ctx context.Context, env []string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", gserrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", gserrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// exitedWith reports whether err is a git command that ran and exited with
// status code
func exitedWith(err error, code int) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == code
}

// Runner defines the version-control operations gitstack needs.
// Implementations must be safe for concurrent use by the merge detector.
type Runner interface {
	// Repository and remotes
	GetRepoRoot(ctx context.Context) (string, error)
	GetRemote(ctx context.Context) string
	GetRemoteIdentity(ctx context.Context) (string, error)
	GetRemoteBranches(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context) error

	// Working tree
	GetCurrentBranch(ctx context.Context) (string, error)
	IsWorkingTreeClean(ctx context.Context) (bool, error)
	GetUnmergedFiles(ctx context.Context) ([]string, error)

	// Branch management
	BranchExists(ctx context.Context, branchName string) (bool, error)
	GetAllBranchNames(ctx context.Context) ([]string, error)
	CreateAndCheckoutBranch(ctx context.Context, branchName, startPoint string) error
	CheckoutBranch(ctx context.Context, branchName string) error
	DeleteBranch(ctx context.Context, branchName string, force bool) error

	// Commits
	GetCurrentCommit(ctx context.Context) (string, error)
	GetCommitsBetween(ctx context.Context, from, to string) ([]Commit, error)
	GetMergeBase(ctx context.Context, ref1, ref2 string) (string, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	CountUnmergedPatches(ctx context.Context, reference, branchName string) (int, error)

	// Rebase
	Rebase(ctx context.Context, onto, branchName string) (RebaseResult, error)
	RebaseContinue(ctx context.Context) (RebaseResult, error)
	RebaseAbort(ctx context.Context) error
	IsRebaseInProgress(ctx context.Context) (bool, error)

	// Remote sync
	PushBranch(ctx context.Context, branchName string, force bool) error
	PullBranch(ctx context.Context, branchName string) (PullResult, error)
}

// NewRealRunner returns a Runner backed by the git binary and go-git,
// operating on the repository containing workingDir ("" means the process
// working directory).
func NewRealRunner(workingDir string, opts ...RunnerOption) Runner {
	r := &realRunner{
		cmd:        NewCommandRunner(workingDir),
		workingDir: workingDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// realRunner implements Runner by calling the git binary, with go-git used
// for read-only object and ref queries.
type realRunner struct {
	cmd        *CommandRunner
	workingDir string
	remote     string

	repoOnce sync.Once
	repo     *Repository
	repoErr  error
}

// repository lazily opens the go-git repository for the working directory.
func (r *realRunner) repository() (*Repository, error) {
	r.repoOnce.Do(func() {
		dir := r.workingDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				r.repoErr = err
				return
			}
			dir = wd
		}
		r.repo, r.repoErr = OpenRepository(dir)
	})
	return r.repo, r.repoErr
}
