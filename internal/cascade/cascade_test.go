package cascade_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/cascade"
	"gitstack.dev/gitstack/internal/config"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/store"
	"gitstack.dev/gitstack/testhelpers"
)

type quietLogger struct{}

func (quietLogger) Info(string, ...interface{})  {}
func (quietLogger) Debug(string, ...interface{}) {}

type fixture struct {
	runner *testhelpers.FakeRunner
	graph  *stack.Graph
	slot   *config.CascadeStateFile
	c      *cascade.Cascade
}

// newFixture builds stack "feat" = main <- a <- b <- c with "a" checked out
func newFixture(t *testing.T) *fixture {
	t.Helper()

	runner := testhelpers.NewFakeRunner("a", "main", "b", "c")
	s := store.NewFileStore(filepath.Join(t.TempDir(), store.FileName), nil)
	graph := stack.NewGraph(s, "repo", "main")
	require.NoError(t, graph.CreateStack("feat", "main", false))
	for _, b := range []string{"a", "b", "c"} {
		require.NoError(t, graph.AddBranch("feat", b, ""))
	}

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	slot := config.NewCascadeStateFile(root)

	return &fixture{
		runner: runner,
		graph:  graph,
		slot:   slot,
		c:      cascade.New(runner, graph, slot, quietLogger{}),
	}
}

func (f *fixture) state(t *testing.T) *config.CascadeState {
	t.Helper()
	state, err := f.slot.Get()
	require.NoError(t, err)
	return state
}

func TestStart(t *testing.T) {
	t.Parallel()

	t.Run("rebases downstream in order and returns home", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		result, err := f.c.Start(t.Context())
		require.NoError(t, err)
		assert.Equal(t, cascade.Completed, result.Status)
		assert.Equal(t, "feat", result.StackName)
		assert.Equal(t, []string{"b", "c"}, result.Processed)

		assert.Equal(t, []string{
			"checkout b",
			"rebase b onto a",
			"checkout c",
			"rebase c onto b",
			"checkout a",
		}, f.runner.CallLog())
		assert.Equal(t, "a", f.runner.Current)
		assert.Nil(t, f.state(t))
	})

	t.Run("last branch has nothing to do", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.Current = "c"

		result, err := f.c.Start(t.Context())
		require.NoError(t, err)
		assert.Equal(t, cascade.NothingToDo, result.Status)
		assert.Empty(t, f.runner.CallLog())
		assert.Nil(t, f.state(t))
	})

	t.Run("dirty tree is refused", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.Dirty = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrDirtyTree)
		assert.Empty(t, f.runner.CallLog())
	})

	t.Run("unstaged branch is refused", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.Current = "main"

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrNotStaged)
	})

	t.Run("second start while paused is refused", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["b"] = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		_, err = f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrCascadeInProgress)
	})

	t.Run("conflict pauses with durable state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["c"] = true

		result, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)
		var conflict *gserrors.RebaseConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "c", conflict.BranchName)

		assert.Equal(t, cascade.Paused, result.Status)
		assert.Equal(t, "c", result.PausedBranch)
		assert.Equal(t, []string{"b"}, result.Processed)

		state := f.state(t)
		require.NotNil(t, state)
		assert.Equal(t, config.CascadeStateVersion, state.Version)
		assert.Equal(t, "feat", state.StackName)
		assert.Equal(t, "a", state.CurrentBranch)
		assert.Equal(t, []string{"b", "c"}, state.DownstreamBranches)
		assert.Equal(t, []string{"b"}, state.Processed)
		assert.Equal(t, "c", state.PausedBranch)
		assert.WithinDuration(t, time.Now(), state.StartedAt, time.Minute)
	})

	t.Run("non-conflict failure pauses instead of skipping", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		boom := errors.New("disk full")
		f.runner.RebaseErrors["b"] = boom

		result, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, gserrors.ErrRebaseConflict)
		assert.Equal(t, cascade.Paused, result.Status)

		state := f.state(t)
		require.NotNil(t, state)
		assert.Equal(t, "b", state.PausedBranch)
		assert.Empty(t, state.Processed)
		assert.NotContains(t, f.runner.CallLog(), "checkout c")
	})
}

func TestContinue(t *testing.T) {
	t.Parallel()

	t.Run("without state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.c.Continue(t.Context())
		require.ErrorIs(t, err, gserrors.ErrNoCascadeInProgress)
	})

	t.Run("resumes after the paused branch", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["b"] = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		result, err := f.c.Continue(t.Context())
		require.NoError(t, err)
		assert.Equal(t, cascade.Completed, result.Status)
		assert.Equal(t, []string{"b", "c"}, result.Processed)

		assert.Equal(t, []string{
			"checkout b",
			"rebase b onto a",
			"rebase --continue",
			"checkout c",
			"rebase c onto b",
			"checkout a",
		}, f.runner.CallLog())
		assert.Nil(t, f.state(t))
	})

	t.Run("unresolved conflict leaves state untouched", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["b"] = true
		f.runner.ContinueConflicts = 1

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)
		before := f.state(t)

		result, err := f.c.Continue(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)
		assert.Equal(t, cascade.Paused, result.Status)
		assert.Equal(t, before, f.state(t))

		result, err = f.c.Continue(t.Context())
		require.NoError(t, err)
		assert.Equal(t, cascade.Completed, result.Status)
	})

	t.Run("rebase already finished by hand", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["c"] = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)
		f.runner.SetRebaseInProgress(false)

		result, err := f.c.Continue(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, result.Processed)
		assert.NotContains(t, f.runner.CallLog(), "rebase --continue")
	})

	t.Run("failed step is rebased again", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.RebaseErrors["b"] = errors.New("disk full")

		_, err := f.c.Start(t.Context())
		require.Error(t, err)
		state := f.state(t)
		require.NotNil(t, state)
		assert.False(t, state.PausedOnConflict)

		delete(f.runner.RebaseErrors, "b")
		result, err := f.c.Continue(t.Context())
		require.NoError(t, err)
		assert.Equal(t, cascade.Completed, result.Status)
		assert.Equal(t, []string{"b", "c"}, result.Processed)

		assert.Equal(t, []string{
			"checkout b",
			"rebase b onto a",
			"checkout b",
			"rebase b onto a",
			"checkout c",
			"rebase c onto b",
			"checkout a",
		}, f.runner.CallLog())
		assert.Nil(t, f.state(t))
	})

	t.Run("failed step that fails again stays paused", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.RebaseErrors["b"] = errors.New("disk full")

		_, err := f.c.Start(t.Context())
		require.Error(t, err)

		result, err := f.c.Continue(t.Context())
		require.Error(t, err)
		assert.Equal(t, cascade.Paused, result.Status)
		assert.Empty(t, result.Processed)

		state := f.state(t)
		require.NotNil(t, state)
		assert.Equal(t, "b", state.PausedBranch)
		assert.Empty(t, state.Processed)
	})

	t.Run("second conflict pauses again", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["b"] = true
		f.runner.ConflictOn["c"] = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		result, err := f.c.Continue(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)
		assert.Equal(t, "c", result.PausedBranch)
		assert.Equal(t, []string{"b"}, result.Processed)

		state := f.state(t)
		require.NotNil(t, state)
		assert.Equal(t, "c", state.PausedBranch)
		assert.Equal(t, []string{"b"}, state.Processed)
	})
}

func TestAbort(t *testing.T) {
	t.Parallel()

	t.Run("without state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.c.Abort(t.Context())
		require.ErrorIs(t, err, gserrors.ErrNoCascadeInProgress)
	})

	t.Run("aborts the rebase and clears state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["c"] = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		result, err := f.c.Abort(t.Context())
		require.NoError(t, err)
		assert.Equal(t, cascade.Aborted, result.Status)
		assert.Equal(t, []string{"b"}, result.Processed)
		assert.Contains(t, f.runner.CallLog(), "rebase --abort")
		assert.False(t, f.runner.RebaseInProgress())
		assert.Equal(t, "c", f.runner.Current)
		assert.Equal(t, "c", result.PausedBranch)
		assert.Nil(t, f.state(t))
	})

	t.Run("no rebase in progress skips the abort primitive", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["b"] = true

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)
		f.runner.SetRebaseInProgress(false)

		_, err = f.c.Abort(t.Context())
		require.NoError(t, err)
		assert.NotContains(t, f.runner.CallLog(), "rebase --abort")
		assert.Nil(t, f.state(t))
	})

	t.Run("abort failure keeps state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.ConflictOn["b"] = true
		f.runner.AbortError = errors.New("index.lock exists")

		_, err := f.c.Start(t.Context())
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		_, err = f.c.Abort(t.Context())
		require.Error(t, err)
		assert.NotNil(t, f.state(t))
	})
}
