// Package runtime provides a context type that holds the git runner, stack
// graph, cascade and logger for use throughout the application. This avoids
// passing multiple parameters.
package runtime

import (
	"context"
	"fmt"

	"gitstack.dev/gitstack/internal/cascade"
	"gitstack.dev/gitstack/internal/config"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/store"
	"gitstack.dev/gitstack/internal/tui"
)

// Context provides access to repository state and output for commands
type Context struct {
	Context context.Context

	Git          git.Runner
	Stacks       *stack.Graph
	Cascade      *cascade.Cascade
	CascadeState *config.CascadeStateFile
	Config       *config.RepoConfig
	Splog        *tui.Splog

	RepoRoot string
	RepoID   string

	// GitHubClient is created on first use by GitHub unless set
	GitHubClient github.Client
}

// NewContext assembles a context for the repository at repoRoot. The repo
// identity comes from the runner's remote; without one, stacks are read-only
// and empty.
func NewContext(ctx context.Context, runner git.Runner, stacksStore stack.Store, repoRoot string, splog *tui.Splog) (*Context, error) {
	cfg, err := config.GetRepoConfig(repoRoot)
	if err != nil {
		return nil, err
	}

	repoID, err := runner.GetRemoteIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository identity: %w", err)
	}
	if repoID == "" {
		splog.Debug("No remote configured; stacks cannot be recorded for %s", repoRoot)
	}

	graph := stack.NewGraph(stacksStore, repoID, cfg.TrunkName())
	stateFile := config.NewCascadeStateFile(repoRoot)

	return &Context{
		Context:      ctx,
		Git:          runner,
		Stacks:       graph,
		Cascade:      cascade.New(runner, graph, stateFile, splog),
		CascadeState: stateFile,
		Config:       cfg,
		Splog:        splog,
		RepoRoot:     repoRoot,
		RepoID:       repoID,
	}, nil
}

// GetContext builds a context for the repository containing the working
// directory, using the default stacks file. Unless allowUninitialized is set
// it requires 'gitstack init' to have been run.
func GetContext(ctx context.Context, splog *tui.Splog, allowUninitialized bool) (*Context, error) {
	probe := git.NewRealRunner("")
	repoRoot, err := probe.GetRepoRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gserrors.ErrNotInRepo, err)
	}

	if !allowUninitialized && !config.IsInitialized(repoRoot) {
		return nil, fmt.Errorf("gitstack not initialized. Run 'gitstack init' first")
	}

	cfg, err := config.GetRepoConfig(repoRoot)
	if err != nil {
		return nil, err
	}

	path, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}

	runner := git.NewRealRunner(repoRoot, git.WithRemote(cfg.RemoteName()))
	return NewContext(ctx, runner, store.NewFileStore(path, splog), repoRoot, splog)
}

// GitHub returns the GitHub client, creating it from the remote URL and the
// available token on first use
func (c *Context) GitHub() (github.Client, error) {
	if c.GitHubClient != nil {
		return c.GitHubClient, nil
	}
	if c.RepoID == "" {
		return nil, fmt.Errorf("no remote configured")
	}

	token, err := github.GetToken(c.Context)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClientFromRemote(c.Context, c.RepoID, token)
	if err != nil {
		return nil, err
	}
	c.GitHubClient = client
	return client, nil
}

// RequireRepoID fails with ErrNotInRepo when no identity was resolved
func (c *Context) RequireRepoID() error {
	if c.RepoID == "" {
		return fmt.Errorf("%w: add a remote so stacks can be recorded for this repository", gserrors.ErrNotInRepo)
	}
	return nil
}
