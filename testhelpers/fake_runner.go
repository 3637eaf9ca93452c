package testhelpers

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
)

// FakeRunner is an in-memory git.Runner. It records the branch-changing
// calls it receives in Calls and can be scripted to conflict or fail.
// All methods are safe for concurrent use.
type FakeRunner struct {
	mu sync.Mutex

	RepoRoot       string
	RemoteURL      string
	Current        string
	Dirty          bool
	Branches       map[string]string
	RemoteBranches []string

	// ConflictOn lists branches whose rebase stops with a conflict.
	ConflictOn map[string]bool
	// ContinueConflicts is how many RebaseContinue calls still report a
	// conflict before one succeeds.
	ContinueConflicts int
	// RebaseErrors makes Rebase fail outright for a branch.
	RebaseErrors map[string]error
	AbortError   error
	FetchError   error
	UnmergedFile []string

	// Merge detection answers, keyed by candidate branch.
	NoMergeBase     map[string]bool
	UnmergedPatches map[string]int
	Ancestors       map[string]bool
	QueryErrors     map[string]error
	QueryDelay      time.Duration

	PullResults map[string]git.PullResult

	Calls []string

	rebasing      bool
	rebaseBranch  string
	inFlight      int
	maxInFlight   int
	deletedByName map[string]bool
}

var _ git.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a fake with the given local branches checked out on
// the first one.
func NewFakeRunner(branches ...string) *FakeRunner {
	f := &FakeRunner{
		RepoRoot:        "/fake/repo",
		RemoteURL:       "git@github.com:acme/widgets.git",
		Branches:        map[string]string{},
		ConflictOn:      map[string]bool{},
		RebaseErrors:    map[string]error{},
		NoMergeBase:     map[string]bool{},
		UnmergedPatches: map[string]int{},
		Ancestors:       map[string]bool{},
		QueryErrors:     map[string]error{},
		PullResults:     map[string]git.PullResult{},
		deletedByName:   map[string]bool{},
	}
	for i, b := range branches {
		f.Branches[b] = fmt.Sprintf("%040d", i+1)
	}
	if len(branches) > 0 {
		f.Current = branches[0]
	}
	return f
}

func (f *FakeRunner) record(format string, args ...interface{}) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// CallLog returns a copy of the recorded calls
func (f *FakeRunner) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Calls)
}

// RebaseInProgress reports whether the fake is mid-rebase
func (f *FakeRunner) RebaseInProgress() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rebasing
}

// SetRebaseInProgress forces the mid-rebase flag, e.g. to simulate a user
// who aborted by hand
func (f *FakeRunner) SetRebaseInProgress(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rebasing = v
}

// MaxConcurrentQueries is the highest number of merge queries seen at once
func (f *FakeRunner) MaxConcurrentQueries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// Deleted reports whether DeleteBranch removed name
func (f *FakeRunner) Deleted(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletedByName[name]
}

func (f *FakeRunner) GetRepoRoot(context.Context) (string, error) {
	return f.RepoRoot, nil
}

func (f *FakeRunner) GetRemote(context.Context) string {
	return git.DefaultRemote
}

func (f *FakeRunner) GetRemoteIdentity(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RemoteURL, nil
}

func (f *FakeRunner) GetRemoteBranches(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.RemoteBranches), nil
}

func (f *FakeRunner) Fetch(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("fetch")
	return f.FetchError
}

func (f *FakeRunner) GetCurrentBranch(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Current, nil
}

func (f *FakeRunner) IsWorkingTreeClean(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.Dirty, nil
}

func (f *FakeRunner) GetUnmergedFiles(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.rebasing {
		return []string{}, nil
	}
	return slices.Clone(f.UnmergedFile), nil
}

func (f *FakeRunner) BranchExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Branches[name]
	return ok, nil
}

func (f *FakeRunner) GetAllBranchNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.Branches))
	for name := range f.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FakeRunner) CreateAndCheckoutBranch(_ context.Context, name, startPoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Branches[name]; ok {
		return fmt.Errorf("branch %s already exists", name)
	}
	if startPoint == "" {
		startPoint = f.Current
	}
	sha, ok := f.Branches[startPoint]
	if !ok {
		return gserrors.NewBranchNotFoundError(startPoint)
	}
	f.Branches[name] = sha
	f.Current = name
	f.record("create %s from %s", name, startPoint)
	return nil
}

func (f *FakeRunner) CheckoutBranch(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Branches[name]; !ok {
		return gserrors.NewBranchNotFoundError(name)
	}
	f.Current = name
	f.record("checkout %s", name)
	return nil
}

func (f *FakeRunner) DeleteBranch(_ context.Context, name string, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Branches[name]; !ok {
		return gserrors.NewBranchNotFoundError(name)
	}
	if name == f.Current {
		return fmt.Errorf("cannot delete branch %s checked out", name)
	}
	delete(f.Branches, name)
	f.deletedByName[name] = true
	f.record("delete %s force=%t", name, force)
	return nil
}

func (f *FakeRunner) GetCurrentCommit(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Branches[f.Current], nil
}

func (f *FakeRunner) GetCommitsBetween(context.Context, string, string) ([]git.Commit, error) {
	return []git.Commit{}, nil
}

func (f *FakeRunner) enterQuery(branch string) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	delay := f.QueryDelay
	err := f.QueryErrors[branch]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (f *FakeRunner) leaveQuery() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *FakeRunner) GetMergeBase(_ context.Context, ref, branch string) (string, error) {
	if err := f.enterQuery(branch); err != nil {
		f.leaveQuery()
		return "", err
	}
	defer f.leaveQuery()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NoMergeBase[branch] {
		return "", nil
	}
	return f.Branches[ref], nil
}

func (f *FakeRunner) IsAncestor(_ context.Context, ancestor, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Ancestors[ancestor], nil
}

func (f *FakeRunner) CountUnmergedPatches(_ context.Context, _, branch string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.UnmergedPatches[branch], nil
}

func (f *FakeRunner) Rebase(_ context.Context, onto, branch string) (git.RebaseResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rebase %s onto %s", branch, onto)
	if err := f.RebaseErrors[branch]; err != nil {
		return git.RebaseDone, err
	}
	f.Current = branch
	if f.ConflictOn[branch] {
		f.rebasing = true
		f.rebaseBranch = branch
		return git.RebaseConflict, nil
	}
	return git.RebaseDone, nil
}

func (f *FakeRunner) RebaseContinue(context.Context) (git.RebaseResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rebase --continue")
	if !f.rebasing {
		return git.RebaseDone, fmt.Errorf("no rebase in progress")
	}
	if f.ContinueConflicts > 0 {
		f.ContinueConflicts--
		return git.RebaseConflict, nil
	}
	f.rebasing = false
	f.Current = f.rebaseBranch
	return git.RebaseDone, nil
}

func (f *FakeRunner) RebaseAbort(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rebase --abort")
	if f.AbortError != nil {
		return f.AbortError
	}
	f.rebasing = false
	return nil
}

func (f *FakeRunner) IsRebaseInProgress(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rebasing, nil
}

func (f *FakeRunner) PushBranch(_ context.Context, branch string, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Branches[branch]; !ok {
		return gserrors.NewBranchNotFoundError(branch)
	}
	if !slices.Contains(f.RemoteBranches, branch) {
		f.RemoteBranches = append(f.RemoteBranches, branch)
	}
	f.record("push %s force=%t", branch, force)
	return nil
}

func (f *FakeRunner) PullBranch(_ context.Context, branch string) (git.PullResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("pull %s", branch)
	if result, ok := f.PullResults[branch]; ok {
		return result, nil
	}
	return git.PullUnneeded, nil
}
