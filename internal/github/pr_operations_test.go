package github_test

import (
	"context"
	"testing"

	gh "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	githubpkg "gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/testhelpers"
)

func newTestClient(t *testing.T, config *testhelpers.MockGitHubServerConfig) *githubpkg.RESTClient {
	t.Helper()
	client, owner, repo := testhelpers.NewMockGitHubClient(t, config)
	return githubpkg.NewClient(client, owner, repo)
}

func TestCreatePullRequest(t *testing.T) {
	t.Run("creates a pull request successfully", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		client := newTestClient(t, config)

		opts := githubpkg.CreatePROptions{
			Title: "Test PR",
			Body:  "This is a test PR",
			Head:  "feature-branch",
			Base:  "main",
		}

		pr, err := client.CreatePullRequest(context.Background(), opts)
		require.NoError(t, err)
		require.Equal(t, 1, pr.Number)
		require.Equal(t, opts.Title, pr.Title)
		require.Equal(t, opts.Body, pr.Body)
		require.Equal(t, opts.Head, pr.Head)
		require.Equal(t, opts.Base, pr.Base)
		require.False(t, pr.Draft)
		require.NotEmpty(t, pr.HTMLURL)
		require.Len(t, config.Created(), 1)
	})

	t.Run("creates a draft pull request", func(t *testing.T) {
		client := newTestClient(t, testhelpers.NewMockGitHubServerConfig())

		pr, err := client.CreatePullRequest(context.Background(), githubpkg.CreatePROptions{
			Title: "Draft PR",
			Head:  "feature-branch",
			Base:  "main",
			Draft: true,
		})
		require.NoError(t, err)
		require.True(t, pr.Draft)
	})
}

func TestUpdatePullRequest(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	config.PRs["feature"] = testhelpers.NewSamplePullRequest(7, "feature", "main")
	client := newTestClient(t, config)

	pr, err := client.UpdatePullRequest(context.Background(), 7, githubpkg.UpdatePROptions{
		Base: gh.String("parent"),
	})
	require.NoError(t, err)
	require.Equal(t, "parent", pr.Base)
	require.Equal(t, "parent", config.Updated(7).GetBase().GetRef())
}

func TestGetPullRequestByBranch(t *testing.T) {
	t.Run("returns the PR for a branch", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		config.PRs["feature"] = testhelpers.NewSamplePullRequest(3, "feature", "main")
		client := newTestClient(t, config)

		pr, err := client.GetPullRequestByBranch(context.Background(), "feature")
		require.NoError(t, err)
		require.NotNil(t, pr)
		require.Equal(t, 3, pr.Number)
	})

	t.Run("returns nil when there is none", func(t *testing.T) {
		client := newTestClient(t, testhelpers.NewMockGitHubServerConfig())

		pr, err := client.GetPullRequestByBranch(context.Background(), "missing")
		require.NoError(t, err)
		require.Nil(t, pr)
	})
}

func TestParseGitHubRemoteURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected githubpkg.RepoInfo
	}{
		{"https", "https://github.com/owner/repo.git", githubpkg.RepoInfo{Hostname: "github.com", Owner: "owner", Repo: "repo"}},
		{"scp ssh", "git@github.com:owner/repo.git", githubpkg.RepoInfo{Hostname: "github.com", Owner: "owner", Repo: "repo"}},
		{"ssh scheme with port", "ssh://git@ghe.example.com:2222/org/tool", githubpkg.RepoInfo{Hostname: "ghe.example.com", Owner: "org", Repo: "tool"}},
		{"enterprise https", "https://ghe.example.com/org/tool", githubpkg.RepoInfo{Hostname: "ghe.example.com", Owner: "org", Repo: "tool"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := githubpkg.ParseGitHubRemoteURL(tt.url)
			require.NoError(t, err)
			require.Equal(t, tt.expected, *info)
		})
	}

	t.Run("rejects local paths", func(t *testing.T) {
		_, err := githubpkg.ParseGitHubRemoteURL("/tmp/repo.git")
		require.Error(t, err)
	})
}
