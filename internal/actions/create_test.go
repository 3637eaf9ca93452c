package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/testhelpers"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestCreateAction(t *testing.T) {
	t.Run("starts a new stack from trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "a", Stack: "feat"})
		require.NoError(t, err)

		s.ExpectBranch("a").ExpectParent("a", "main")
		rec, err := s.Graph().Stack("feat")
		require.NoError(t, err)
		require.Equal(t, "main", rec.BaseBranch)
		require.Equal(t, []string{"a"}, rec.Branches)
		require.True(t, rec.HasExplicitParent("a"))
	})

	t.Run("adds to the current branch's stack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a").
			Checkout("a")

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "b"})
		require.NoError(t, err)

		s.ExpectBranch("b").ExpectParent("b", "a")
		children, err := s.Graph().ChildrenOf("a")
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, children)
	})

	t.Run("branches from an explicit parent", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("feat", "main", "a", "b").
			Checkout("b")

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "c", Parent: "a"})
		require.NoError(t, err)

		s.ExpectParent("c", "a")
		children, err := s.Graph().ChildrenOf("a")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, children)
	})

	t.Run("uses the only stack based on the parent", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		require.NoError(t, s.Graph().CreateStack("feat", "main", false))

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "a"})
		require.NoError(t, err)

		name, _, err := s.Graph().Find("a")
		require.NoError(t, err)
		require.Equal(t, "feat", name)
	})

	t.Run("requires a stack when the parent is not staged", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "a"})
		require.ErrorIs(t, err, gserrors.ErrNotStaged)
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main"})
	})

	t.Run("rejects invalid branch names", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "bad..name", Stack: "feat"})
		require.Error(t, err)
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main"})
	})

	t.Run("requires a name when prompts are disabled", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.CreateAction(s.Context, actions.CreateOptions{Stack: "feat"})
		require.ErrorContains(t, err, "branch name is required")
	})

	t.Run("rejects a parent owned by another stack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack("api", "main", "a").
			WithStack("docs", "main", "d").
			Checkout("a")

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "x", Stack: "docs"})
		require.ErrorIs(t, err, gserrors.ErrInvalidParent)

		s.ExpectBranch("a")
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"a", "d", "main"})
	})

	t.Run("leaves no stack behind when the branch cannot be created", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			CreateBranch("a").
			Checkout("main")

		// refs/heads/a is a file, so refs/heads/a/x cannot be created
		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "a/x", Stack: "fresh", Parent: "main"})
		require.Error(t, err)

		_, err = s.Graph().Stack("fresh")
		require.ErrorIs(t, err, gserrors.ErrStackNotFound)
		s.ExpectBranch("main")
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"a", "main"})
	})
}
