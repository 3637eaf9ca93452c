package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestTrackAction(t *testing.T) {
	t.Run("follows the last branch without a parent", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a").
			Checkout("a").
			CreateBranch("b").
			CommitChange("b", "change on b")

		err := actions.TrackAction(s.Context, actions.TrackOptions{Stack: "feat"})
		require.NoError(t, err)

		s.ExpectParent("b", "a")
		rec, err := s.Graph().Stack("feat")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, rec.Branches)
		require.False(t, rec.HasExplicitParent("b"))
		require.Contains(t, s.Output.String(), "Tracked b on a in stack feat.")
	})

	t.Run("records an explicit parent and infers its stack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a", "b").
			Checkout("a").
			CreateBranch("c").
			CommitChange("c", "change on c").
			Checkout("main")

		err := actions.TrackAction(s.Context, actions.TrackOptions{BranchName: "c", Parent: "a"})
		require.NoError(t, err)

		s.ExpectParent("c", "a").ExpectBranch("main")
		children, err := s.Graph().ChildrenOf("a")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, children)
	})

	t.Run("rejects a parent that is not an ancestor", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a").
			CreateBranch("side").
			CommitChange("side", "change on side")

		err := actions.TrackAction(s.Context, actions.TrackOptions{BranchName: "side", Stack: "feat"})
		require.ErrorIs(t, err, gserrors.ErrInvalidParent)

		name, _, err := s.Graph().Find("side")
		require.NoError(t, err)
		require.Empty(t, name)

		err = actions.TrackAction(s.Context, actions.TrackOptions{BranchName: "side", Stack: "feat", Force: true})
		require.NoError(t, err)
		s.ExpectParent("side", "a")
	})

	t.Run("already tracked is a no-op", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithStack("feat", "main", "a")

		err := actions.TrackAction(s.Context, actions.TrackOptions{BranchName: "a", Stack: "feat"})
		require.NoError(t, err)
		require.Contains(t, s.Output.String(), "a is already in stack feat.")
	})

	t.Run("requires a stack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).CreateBranch("a")

		err := actions.TrackAction(s.Context, actions.TrackOptions{})
		require.ErrorContains(t, err, "pass --stack")

		err = actions.TrackAction(s.Context, actions.TrackOptions{Stack: "missing"})
		require.ErrorIs(t, err, gserrors.ErrStackNotFound)
	})

	t.Run("missing branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WithStack("feat", "main", "a")

		err := actions.TrackAction(s.Context, actions.TrackOptions{BranchName: "nope", Stack: "feat"})
		require.ErrorIs(t, err, gserrors.ErrBranchNotFound)
	})
}
