package actions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

// newConflictScenario builds feat = main <- a <- b <- c with a new commit on
// a that conflicts with b's change, and a checked out
func newConflictScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	return scenario.NewScenario(t, nil).
		WithStack("feat", "main", "a", "b", "c").
		Checkout("a").
		CommitChange("b", "conflicting change on a")
}

func TestRestackAction(t *testing.T) {
	t.Run("rebases every downstream branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a", "b", "c").
			Checkout("a").
			CommitChange("a2", "second change on a")

		require.NoError(t, actions.RestackAction(s.Context))

		s.ExpectBranch("a").
			ExpectAncestor("a", "b").
			ExpectAncestor("b", "c")
		require.Contains(t, s.Output.String(), "Restacked b on a.")
		require.Contains(t, s.Output.String(), "Restacked c on b.")
		require.Contains(t, s.Output.String(), "Restacked 2 branches in feat.")

		state, err := s.Context.CascadeState.Get()
		require.NoError(t, err)
		require.Nil(t, state)
	})

	t.Run("reports nothing to do at the top of a stack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a").
			Checkout("a")

		require.NoError(t, actions.RestackAction(s.Context))
		require.Contains(t, s.Output.String(), "Nothing to restack.")
	})

	t.Run("fails on an unstaged branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.RestackAction(s.Context)
		require.ErrorIs(t, err, gserrors.ErrNotStaged)
	})

	t.Run("fails with uncommitted changes", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a", "b").
			Checkout("a").
			WithUncommittedChange("wip")

		err := actions.RestackAction(s.Context)
		require.ErrorIs(t, err, gserrors.ErrDirtyTree)
	})

	t.Run("pauses on a conflict and prints instructions", func(t *testing.T) {
		s := newConflictScenario(t)

		err := actions.RestackAction(s.Context)
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		out := s.Output.String()
		require.Contains(t, out, "Hit conflict restacking b")
		require.Contains(t, out, "b_test.txt")
		require.Contains(t, out, "gitstack continue")
		require.True(t, s.Scene.Repo.RebaseInProgress())

		state, err := s.Context.CascadeState.Get()
		require.NoError(t, err)
		require.NotNil(t, state)
		require.Equal(t, "b", state.PausedBranch)
		require.Equal(t, "a", state.CurrentBranch)
		require.Equal(t, []string{"b", "c"}, state.DownstreamBranches)

		err = actions.RestackAction(s.Context)
		require.ErrorIs(t, err, gserrors.ErrCascadeInProgress)
	})
}

func TestContinueAction(t *testing.T) {
	t.Run("fails when nothing is paused", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.ContinueAction(s.Context)
		require.ErrorIs(t, err, gserrors.ErrNoCascadeInProgress)
	})

	t.Run("stays paused while conflicts remain", func(t *testing.T) {
		s := newConflictScenario(t)
		require.Error(t, actions.RestackAction(s.Context))

		err := actions.ContinueAction(s.Context)
		require.ErrorIs(t, err, gserrors.ErrRebaseConflict)

		state, err := s.Context.CascadeState.Get()
		require.NoError(t, err)
		require.Equal(t, "b", state.PausedBranch)
	})

	t.Run("finishes the cascade once resolved", func(t *testing.T) {
		s := newConflictScenario(t)
		require.Error(t, actions.RestackAction(s.Context))

		// Keep b's version so c's copy of the old commit applies cleanly
		conflicted := filepath.Join(s.Scene.Dir, "b_test.txt")
		require.NoError(t, os.WriteFile(conflicted, []byte("change on b"), 0600))
		s.RunGit("add", ".")

		require.NoError(t, actions.ContinueAction(s.Context))

		s.ExpectBranch("a").
			ExpectAncestor("a", "b").
			ExpectAncestor("b", "c")
		require.False(t, s.Scene.Repo.RebaseInProgress())

		state, err := s.Context.CascadeState.Get()
		require.NoError(t, err)
		require.Nil(t, state)
	})
}

func TestAbortAction(t *testing.T) {
	t.Run("fails when nothing is paused", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.AbortAction(s.Context, actions.AbortOptions{Force: true})
		require.ErrorIs(t, err, gserrors.ErrNoCascadeInProgress)
	})

	t.Run("needs confirmation without force", func(t *testing.T) {
		s := newConflictScenario(t)
		require.Error(t, actions.RestackAction(s.Context))

		err := actions.AbortAction(s.Context, actions.AbortOptions{})
		require.Error(t, err)
		require.True(t, s.Scene.Repo.RebaseInProgress())
	})

	t.Run("aborts the rebase and clears the cascade", func(t *testing.T) {
		s := newConflictScenario(t)
		bBefore, err := s.Scene.Repo.GetRevision("b")
		require.NoError(t, err)
		require.Error(t, actions.RestackAction(s.Context))

		require.NoError(t, actions.AbortAction(s.Context, actions.AbortOptions{Force: true}))

		require.False(t, s.Scene.Repo.RebaseInProgress())
		s.ExpectBranch("b")
		bAfter, err := s.Scene.Repo.GetRevision("b")
		require.NoError(t, err)
		require.Equal(t, bBefore, bAfter)

		state, err := s.Context.CascadeState.Get()
		require.NoError(t, err)
		require.Nil(t, state)
	})
}
