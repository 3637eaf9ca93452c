package github

import (
	"fmt"
	"strings"
)

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseGitHubRemoteURL parses a git remote URL and extracts hostname, owner, and repo
// Supports both github.com and GitHub Enterprise URLs
// Examples:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.company.com/owner/repo.git
func ParseGitHubRemoteURL(remoteURL string) (*RepoInfo, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")

	var hostname, path string
	switch {
	case strings.Contains(trimmed, "://"):
		// https://host/owner/repo or ssh://git@host[:port]/owner/repo
		_, rest, _ := strings.Cut(trimmed, "://")
		if _, afterUser, ok := strings.Cut(rest, "@"); ok {
			rest = afterUser
		}
		host, p, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, fmt.Errorf("invalid remote URL %q: missing path", remoteURL)
		}
		hostname, _, _ = strings.Cut(host, ":")
		path = p
	case strings.Contains(trimmed, "@"):
		// git@host:owner/repo
		_, hostAndPath, _ := strings.Cut(trimmed, "@")
		host, p, ok := strings.Cut(hostAndPath, ":")
		if !ok {
			return nil, fmt.Errorf("invalid SSH remote URL %q", remoteURL)
		}
		hostname = host
		path = p
	default:
		return nil, fmt.Errorf("unsupported remote URL %q", remoteURL)
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid remote URL %q: path must be owner/repo", remoteURL)
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL %q", remoteURL)
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}
