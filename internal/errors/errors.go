// Package errors provides sentinel errors and custom error types for gitstack.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrDirtyTree indicates the working tree has uncommitted changes
	ErrDirtyTree = errors.New("working tree has uncommitted changes")

	// ErrNotStaged indicates that a branch is not a member of any stack
	ErrNotStaged = errors.New("branch is not part of a stack")

	// ErrStackNotFound indicates that a named stack does not exist
	ErrStackNotFound = errors.New("stack not found")

	// ErrStackExists indicates that a stack with the same name already exists
	ErrStackExists = errors.New("stack already exists")

	// ErrNotInRepo indicates that no repository identity could be resolved
	ErrNotInRepo = errors.New("not in a repository with a configured remote")

	// ErrInvalidParent indicates that a parent branch is neither the base nor a member of the stack
	ErrInvalidParent = errors.New("parent is not part of the stack")

	// ErrCycle indicates that parent edges would form a cycle
	ErrCycle = errors.New("parent edges form a cycle")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrNoCascadeInProgress indicates continue or abort was called with no paused cascade
	ErrNoCascadeInProgress = errors.New("no cascade in progress")

	// ErrCascadeInProgress indicates a new cascade was started while one is paused
	ErrCascadeInProgress = errors.New("a cascade is already in progress")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// StackNotFoundError represents an error when a named stack is not found
type StackNotFoundError struct {
	StackName string
}

func (e *StackNotFoundError) Error() string {
	return fmt.Sprintf("stack %s does not exist", e.StackName)
}

// Is returns true if the target error is ErrStackNotFound
func (e *StackNotFoundError) Is(target error) bool {
	return target == ErrStackNotFound
}

// NewStackNotFoundError creates a new StackNotFoundError
func NewStackNotFoundError(stackName string) *StackNotFoundError {
	return &StackNotFoundError{StackName: stackName}
}

// RebaseConflictError represents an error when a rebase encounters a conflict
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// GitCommandError represents an error from an external command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(": %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// PersistenceError represents a failure to write durable state
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(path string, err error) *PersistenceError {
	return &PersistenceError{Path: path, Err: err}
}
