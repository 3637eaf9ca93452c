package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestParentAction(t *testing.T) {
	s := scenario.NewScenario(t, nil).
		WithStack("feat", "main", "a", "b")

	require.NoError(t, actions.ParentAction(s.Context, "b"))
	require.Equal(t, "a\n", s.Output.String())

	s.Output.Reset()
	require.NoError(t, actions.ParentAction(s.Context, "unknown"))
	require.Equal(t, "main\n", s.Output.String())
}

func TestChildrenAction(t *testing.T) {
	s := scenario.NewScenario(t, nil).
		WithStack("feat", "main", "a", "b").
		WithBranch("feat", "c", "a").
		Checkout("a")

	require.NoError(t, actions.ChildrenAction(s.Context, ""))
	require.Equal(t, "b\nc\n", s.Output.String())

	s.Output.Reset()
	require.NoError(t, actions.ChildrenAction(s.Context, "c"))
	require.Contains(t, s.Output.String(), "c has no children.")
}

func TestUntrackAction(t *testing.T) {
	s := scenario.NewScenario(t, nil).
		WithStack("feat", "main", "a", "b", "c")

	require.NoError(t, actions.UntrackAction(s.Context, "b"))
	require.Contains(t, s.Output.String(), "Removed b from stack feat.")

	rec, err := s.Graph().Stack("feat")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, rec.Branches)
	s.ExpectParent("c", "a")

	s.Output.Reset()
	require.NoError(t, actions.UntrackAction(s.Context, "b"))
	require.Contains(t, s.Output.String(), "b is not in a stack.")
}

func TestLogAction(t *testing.T) {
	t.Run("reports when there are no stacks", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		require.NoError(t, actions.LogAction(s.Context))
		require.Contains(t, s.Output.String(), "No stacks yet")
	})

	t.Run("renders every stack with commit counts", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("api", "main", "a", "b").
			WithStack("docs", "main", "d").
			Checkout("b").
			CommitChange("b2", "second change on b")

		require.NoError(t, actions.LogAction(s.Context))
		out := s.Output.String()
		require.Contains(t, out, "api")
		require.Contains(t, out, "docs")
		require.Contains(t, out, "a 1 commit")
		require.Contains(t, out, "b (current) 2 commits")
		require.Contains(t, out, "d 1 commit")
	})
}
