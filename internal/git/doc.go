// Package git provides low-level Git operations.
//
// It wraps git command execution and go-git object access behind the Runner
// interface:
//   - Branch management (create, delete, checkout)
//   - Repo state queries (status, HEAD, merge base, ancestry, commit ranges)
//   - Rebase control (rebase, continue, abort, conflict inspection)
//   - Remote operations (fetch, push, pull)
//
// This package should be the only place where direct git commands are executed.
package git
