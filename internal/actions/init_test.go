package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestInitAction(t *testing.T) {
	t.Run("records an explicit trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			CreateBranch("develop").
			Checkout("main")

		require.NoError(t, actions.InitAction(s.Context, actions.InitOptions{Trunk: "develop"}))

		trunk, err := config.GetTrunk(s.Scene.Dir)
		require.NoError(t, err)
		require.Equal(t, "develop", trunk)
		require.Contains(t, s.Output.String(), "Trunk set to develop.")
	})

	t.Run("detects main", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		require.NoError(t, actions.InitAction(s.Context, actions.InitOptions{}))

		trunk, err := config.GetTrunk(s.Scene.Dir)
		require.NoError(t, err)
		require.Equal(t, "main", trunk)
	})

	t.Run("rejects a missing trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.InitAction(s.Context, actions.InitOptions{Trunk: "nope"})
		require.ErrorContains(t, err, "trunk branch nope does not exist")
	})
}
