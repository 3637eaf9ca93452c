// Package scenario provides a high-level test scenario that combines a Scene
// with a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/store"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/testhelpers"
)

// Scenario represents a high-level test scenario backed by a real git
// repository with an "origin" remote, so stacks can be recorded.
type Scenario struct {
	T          *testing.T
	Scene      *testhelpers.Scene
	Context    *runtime.Context
	Output     *bytes.Buffer
	BinaryPath string
}

// NewScenario creates a new Scenario on top of RemoteSceneSetup, followed by
// the optional setup.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv and NewScene.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewScene(t, func(scene *testhelpers.Scene) error {
		if err := testhelpers.RemoteSceneSetup(scene); err != nil {
			return err
		}
		if setup != nil {
			return setup(scene)
		}
		return nil
	})

	s := &Scenario{
		T:      t,
		Scene:  scene,
		Output: &bytes.Buffer{},
	}
	s.Rebuild()
	return s
}

// Rebuild recreates the runtime context, picking up config changes.
func (s *Scenario) Rebuild() *Scenario {
	s.T.Helper()

	splog, err := tui.NewSplogWithWriter(s.Output, "")
	require.NoError(s.T, err)

	st := store.NewFileStore(filepath.Join(s.Scene.Home, store.FileName), splog)
	ctx, err := runtime.NewContext(context.Background(), git.NewRealRunner(s.Scene.Dir), st, s.Scene.Dir, splog)
	require.NoError(s.T, err)

	s.Context = ctx
	return s
}

// Graph returns the stack graph of the scenario's repository.
func (s *Scenario) Graph() *stack.Graph {
	return s.Context.Stacks
}

// WithUncommittedChange creates an uncommitted change to a tracked file.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChange("committed", name, false))
	require.NoError(s.T, s.Scene.Repo.RunGitCommand("commit", "-m", "track "+name))
	require.NoError(s.T, s.Scene.Repo.CreateChange("uncommitted content", name, true))
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand(args...)
	require.NoError(s.T, err)
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CheckoutBranch(branch)
	require.NoError(s.T, err)
	return s
}

// CreateBranch creates and checks out a new branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateAndCheckoutBranch(name)
	require.NoError(s.T, err)
	return s
}

// Commit creates an empty commit with the given message.
func (s *Scenario) Commit(message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand("commit", "--allow-empty", "-m", message)
	require.NoError(s.T, err)
	return s
}

// CommitChange writes content to the file named after name and commits it.
func (s *Scenario) CommitChange(name, content string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit(content, name)
	require.NoError(s.T, err)
	return s
}

// WithStack creates stack name on base and, for each branch in order,
// creates it from the previous one with a commit and records it.
// Ends on base.
func (s *Scenario) WithStack(name, base string, branches ...string) *Scenario {
	s.T.Helper()

	require.NoError(s.T, s.Graph().CreateStack(name, base, false))
	parent := base
	for _, branch := range branches {
		s.WithBranch(name, branch, parent)
		parent = branch
	}
	return s.Checkout(base)
}

// WithBranch creates branch from parent with one commit and records it in
// the stack with an explicit parent edge.
func (s *Scenario) WithBranch(stackName, branch, parent string) *Scenario {
	s.T.Helper()
	s.Checkout(parent).CreateBranch(branch).CommitChange(branch, "change on "+branch)
	require.NoError(s.T, s.Graph().AddBranch(stackName, branch, parent))
	return s
}

// ExpectParent asserts the resolved parent of branch.
func (s *Scenario) ExpectParent(branch, expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Graph().ParentOf(branch)
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual, "Parent of %s does not match", branch)
	return s
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}

// ExpectAncestor asserts that ancestor is reachable from descendant.
func (s *Scenario) ExpectAncestor(ancestor, descendant string) *Scenario {
	s.T.Helper()
	ok, err := s.Scene.Repo.IsAncestor(ancestor, descendant)
	require.NoError(s.T, err)
	require.True(s.T, ok, "%s should be an ancestor of %s", ancestor, descendant)
	return s
}

// WithBinaryPath sets the path to the gitstack binary for RunCli methods.
func (s *Scenario) WithBinaryPath(path string) *Scenario {
	s.BinaryPath = path
	return s
}

// RunCliAndGetOutput executes a gitstack CLI command and returns its output.
func (s *Scenario) RunCliAndGetOutput(args ...string) (string, error) {
	s.T.Helper()
	if s.BinaryPath == "" {
		s.T.Fatal("BinaryPath not set. Call WithBinaryPath first.")
	}
	cmd := exec.Command(s.BinaryPath, args...)
	cmd.Dir = s.Scene.Dir
	cmd.Env = append(os.Environ(), "GITSTACK_NO_INTERACTIVE=1", "NO_COLOR=1")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// RunCli executes a gitstack CLI command that must succeed.
func (s *Scenario) RunCli(args ...string) string {
	s.T.Helper()
	output, err := s.RunCliAndGetOutput(args...)
	require.NoError(s.T, err, "CLI command failed: gitstack %v\nOutput: %s", args, output)
	return output
}

// RunExpectError executes a gitstack CLI command that must fail.
func (s *Scenario) RunExpectError(args ...string) string {
	s.T.Helper()
	output, err := s.RunCliAndGetOutput(args...)
	require.Error(s.T, err, "expected CLI command to fail: gitstack %v\nOutput: %s", args, output)
	return output
}
