package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v62/github"
)

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// UpdatePROptions contains options for updating a pull request.
// Nil fields are left unchanged.
type UpdatePROptions struct {
	Title *string
	Body  *string
	Base  *string
}

// CreatePullRequest creates a new pull request
func (c *RESTClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}
	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	created, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request for %s: %w", opts.Head, err)
	}
	return toPullRequestInfo(created), nil
}

// UpdatePullRequest updates an existing pull request
func (c *RESTClient) UpdatePullRequest(ctx context.Context, prNumber int, opts UpdatePROptions) (*PullRequestInfo, error) {
	update := &github.PullRequest{
		Title: opts.Title,
		Body:  opts.Body,
	}
	if opts.Base != nil {
		update.Base = &github.PullRequestBranch{Ref: opts.Base}
	}

	updated, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, prNumber, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update pull request #%d: %w", prNumber, err)
	}
	return toPullRequestInfo(updated), nil
}

// GetPullRequestByBranch returns the open pull request whose head is branchName
func (c *RESTClient) GetPullRequestByBranch(ctx context.Context, branchName string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branchName),
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	if len(prs) == 0 {
		return nil, nil
	}
	return toPullRequestInfo(prs[0]), nil
}
