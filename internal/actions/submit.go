package actions

import (
	"errors"
	"fmt"
	"slices"

	"gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// SubmitOptions contains options for the submit command
type SubmitOptions struct {
	// Draft creates new pull requests as drafts
	Draft bool
	// Force pushes with --force instead of --force-with-lease
	Force bool
}

// SubmitAction pushes every branch of the current stack, parents first, and
// opens or retargets one pull request per branch against its parent
func SubmitAction(ctx *runtime.Context, opts SubmitOptions) error {
	if err := ctx.RequireRepoID(); err != nil {
		return err
	}
	splog := ctx.Splog

	current, err := branchOrCurrent(ctx, "")
	if err != nil {
		return err
	}
	stackName, _, err := requireStack(ctx, current)
	if err != nil {
		return err
	}
	tree, err := ctx.Stacks.BuildTree(stackName)
	if err != nil {
		return err
	}
	branches := tree.Branches()

	remoteBranches, err := ctx.Git.GetRemoteBranches(ctx.Context)
	if err != nil {
		splog.Debug("Failed to list remote branches: %v", err)
	}

	for _, branch := range branches {
		if err := ctx.Git.PushBranch(ctx.Context, branch, opts.Force); err != nil {
			return err
		}
		if slices.Contains(remoteBranches, branch) {
			splog.Info("Pushed %s.", tui.ColorBranchName(branch, false))
		} else {
			splog.Info("Pushed %s %s.", tui.ColorBranchName(branch, false), tui.ColorDim("(new)"))
		}
	}

	client, err := ctx.GitHub()
	if err != nil {
		if errors.Is(err, github.ErrNoToken) {
			splog.Tip("Set GITHUB_TOKEN to open pull requests for %s.", stackName)
			return nil
		}
		splog.Warn("Skipping pull requests: %v", err)
		return nil
	}

	for _, branch := range branches {
		if err := submitPullRequest(ctx, client, branch, opts); err != nil {
			return err
		}
	}
	return nil
}

func submitPullRequest(ctx *runtime.Context, client github.Client, branch string, opts SubmitOptions) error {
	parent, err := ctx.Stacks.ParentOf(branch)
	if err != nil {
		return err
	}

	existing, err := client.GetPullRequestByBranch(ctx.Context, branch)
	if err != nil {
		return fmt.Errorf("failed to look up pull request for %s: %w", branch, err)
	}

	if existing != nil {
		if existing.Base == parent {
			ctx.Splog.Info("%s %s is up to date.", tui.ColorPRNumber(existing.Number), tui.ColorBranchName(branch, false))
			return nil
		}
		if _, err := client.UpdatePullRequest(ctx.Context, existing.Number, github.UpdatePROptions{Base: &parent}); err != nil {
			return fmt.Errorf("failed to update pull request for %s: %w", branch, err)
		}
		ctx.Splog.Info("%s %s now targets %s.", tui.ColorPRNumber(existing.Number),
			tui.ColorBranchName(branch, false), tui.ColorBranchName(parent, false))
		return nil
	}

	title := branch
	commits, err := ctx.Git.GetCommitsBetween(ctx.Context, parent, branch)
	if err == nil && len(commits) > 0 {
		title = commits[len(commits)-1].Subject()
	}

	pr, err := client.CreatePullRequest(ctx.Context, github.CreatePROptions{
		Title: title,
		Head:  branch,
		Base:  parent,
		Draft: opts.Draft,
	})
	if err != nil {
		return fmt.Errorf("failed to create pull request for %s: %w", branch, err)
	}
	ctx.Splog.Info("Created %s for %s: %s", tui.ColorPRNumber(pr.Number), tui.ColorBranchName(branch, false), pr.HTMLURL)
	return nil
}
