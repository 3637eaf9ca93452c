package mergecheck_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/mergecheck"
	"gitstack.dev/gitstack/testhelpers"
)

func TestDetector_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(f *testhelpers.FakeRunner)
		merged  bool
		reason  mergecheck.Reason
		wantErr bool
	}{
		{
			name:   "squash merged",
			setup:  func(f *testhelpers.FakeRunner) { f.UnmergedPatches["b"] = 0 },
			merged: true,
			reason: mergecheck.ReasonAllChangesInMain,
		},
		{
			name: "reachable but patches differ",
			setup: func(f *testhelpers.FakeRunner) {
				f.UnmergedPatches["b"] = 2
				f.Ancestors["b"] = true
			},
			merged: true,
			reason: mergecheck.ReasonReachable,
		},
		{
			name:   "unmerged",
			setup:  func(f *testhelpers.FakeRunner) { f.UnmergedPatches["b"] = 3 },
			reason: mergecheck.ReasonUnmergedChanges,
		},
		{
			name:   "unrelated history",
			setup:  func(f *testhelpers.FakeRunner) { f.NoMergeBase["b"] = true },
			reason: mergecheck.ReasonNoCommonAncestor,
		},
		{
			name:    "query failure keeps the branch",
			setup:   func(f *testhelpers.FakeRunner) { f.QueryErrors["b"] = errors.New("bad object") },
			reason:  mergecheck.ReasonError,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runner := testhelpers.NewFakeRunner("main", "b")
			tt.setup(runner)

			v := mergecheck.NewDetector(runner, 1).Check(t.Context(), "main", "b")
			assert.Equal(t, "b", v.Branch)
			assert.Equal(t, tt.merged, v.Merged)
			assert.Equal(t, tt.reason, v.Reason)
			if tt.wantErr {
				assert.Error(t, v.Err)
			} else {
				assert.NoError(t, v.Err)
			}
		})
	}
}

func TestDetector_Run(t *testing.T) {
	t.Parallel()

	runner := testhelpers.NewFakeRunner("main", "zeta", "alpha", "mid", "master", "orphan")
	runner.UnmergedPatches["mid"] = 1
	runner.UnmergedPatches["orphan"] = 1
	runner.NoMergeBase["orphan"] = true

	branches, err := runner.GetAllBranchNames(t.Context())
	require.NoError(t, err)

	report, err := mergecheck.NewDetector(runner, 2).Run(t.Context(), "main", branches, []string{"main", "master"})
	require.NoError(t, err)

	assert.Equal(t, "main", report.Reference)
	assert.Equal(t, []string{"alpha", "zeta"}, report.MergedNames())
	require.Len(t, report.Unmerged, 2)
	assert.Equal(t, "mid", report.Unmerged[0].Branch)
	assert.Equal(t, mergecheck.ReasonUnmergedChanges, report.Unmerged[0].Reason)
	assert.Equal(t, 1, report.Unmerged[0].UnmergedCount)
	assert.Equal(t, "orphan", report.Unmerged[1].Branch)
	assert.Equal(t, mergecheck.ReasonNoCommonAncestor, report.Unmerged[1].Reason)
}

func TestDetector_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	names := []string{"main"}
	for _, c := range "abcdefghij" {
		names = append(names, string(c))
	}
	runner := testhelpers.NewFakeRunner(names...)
	runner.QueryDelay = 20 * time.Millisecond

	report, err := mergecheck.NewDetector(runner, 3).Run(t.Context(), "main", names, nil)
	require.NoError(t, err)
	assert.Len(t, report.Merged, 10)
	assert.LessOrEqual(t, runner.MaxConcurrentQueries(), 3)
	assert.Greater(t, runner.MaxConcurrentQueries(), 1)
}

func TestDetector_Cancelled(t *testing.T) {
	t.Parallel()

	runner := testhelpers.NewFakeRunner("main", "a", "b")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := mergecheck.NewDetector(runner, 1).Run(ctx, "main", []string{"a", "b"}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDetector_RealGit(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo

	require.NoError(t, repo.CreateAndCheckoutBranch("squashed"))
	require.NoError(t, repo.CreateChangeAndCommit("s1", "s1"))

	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.CreateAndCheckoutBranch("pending"))
	require.NoError(t, repo.CreateChangeAndCommit("p1", "p1"))

	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.SquashMergeBranch("squashed", "squash squashed"))

	require.NoError(t, repo.RunGitCommand("checkout", "--orphan", "unrelated"))
	require.NoError(t, repo.CreateChangeAndCommit("u1", "u1"))
	require.NoError(t, repo.CheckoutBranch("main"))

	runner := git.NewRealRunner(scene.Dir)
	branches, err := runner.GetAllBranchNames(t.Context())
	require.NoError(t, err)

	report, err := mergecheck.NewDetector(runner, 2).Run(t.Context(), "main", branches, []string{"main"})
	require.NoError(t, err)

	assert.Equal(t, []string{"squashed"}, report.MergedNames())
	assert.Equal(t, mergecheck.ReasonAllChangesInMain, report.Merged[0].Reason)
	assert.False(t, report.Merged[0].IsAncestor)

	reasons := map[string]mergecheck.Reason{}
	for _, v := range report.Unmerged {
		reasons[v.Branch] = v.Reason
	}
	assert.Equal(t, map[string]mergecheck.Reason{
		"pending":   mergecheck.ReasonUnmergedChanges,
		"unrelated": mergecheck.ReasonNoCommonAncestor,
	}, reasons)
}
