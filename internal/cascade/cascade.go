// Package cascade rebases the branches downstream of the current branch, one
// after another, pausing on conflicts and resuming from durable state.
package cascade

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gitstack.dev/gitstack/internal/config"
	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
)

// StateSlot holds at most one persisted cascade. Get returns nil when none
// is in progress.
type StateSlot interface {
	Get() (*config.CascadeState, error)
	Set(state *config.CascadeState) error
	Clear() error
}

// Stacks resolves the branches that follow a branch in its stack
type Stacks interface {
	Downstream(branch string) (string, []string, error)
}

// Logger receives progress messages
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Status is the outcome of a cascade call
type Status int

const (
	// NothingToDo means the current branch has no downstream branches
	NothingToDo Status = iota
	// Paused means a branch stopped on a conflict or error; state is saved
	Paused
	// Completed means every downstream branch was rebased
	Completed
	// Aborted means the cascade was cancelled and its state cleared
	Aborted
)

func (s Status) String() string {
	switch s {
	case NothingToDo:
		return "nothing-to-do"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result describes where a cascade stands after a call
type Result struct {
	Status       Status
	StackName    string
	Processed    []string
	PausedBranch string
}

// Cascade drives restacks for one repository
type Cascade struct {
	runner git.Runner
	stacks Stacks
	slot   StateSlot
	logger Logger
	now    func() time.Time
}

// New creates a cascade
func New(runner git.Runner, stacks Stacks, slot StateSlot, logger Logger) *Cascade {
	return &Cascade{
		runner: runner,
		stacks: stacks,
		slot:   slot,
		logger: logger,
		now:    time.Now,
	}
}

// Start rebases every branch after the current one in its stack. No other
// cascade may be in progress and the working tree must be clean. The
// in-progress check comes first since a paused cascade leaves the tree dirty.
func (c *Cascade) Start(ctx context.Context) (*Result, error) {
	existing, err := c.slot.Get()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: stack %s, started from %s", gserrors.ErrCascadeInProgress, existing.StackName, existing.CurrentBranch)
	}

	clean, err := c.runner.IsWorkingTreeClean(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check working tree: %w", err)
	}
	if !clean {
		return nil, gserrors.ErrDirtyTree
	}

	current, err := c.runner.GetCurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current branch: %w", err)
	}

	stackName, downstream, err := c.stacks.Downstream(current)
	if err != nil {
		return nil, err
	}
	if len(downstream) == 0 {
		return &Result{Status: NothingToDo, StackName: stackName, Processed: []string{}}, nil
	}

	state := &config.CascadeState{
		Version:            config.CascadeStateVersion,
		StackName:          stackName,
		CurrentBranch:      current,
		DownstreamBranches: downstream,
		Processed:          []string{},
		StartedAt:          c.now().UTC(),
	}
	if err := c.slot.Set(state); err != nil {
		return nil, err
	}

	return c.run(ctx, state, current, downstream)
}

// Continue resumes a paused cascade after the user resolved the conflict
func (c *Cascade) Continue(ctx context.Context) (*Result, error) {
	state, err := c.slot.Get()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, gserrors.ErrNoCascadeInProgress
	}

	anchor := state.CurrentBranch
	if n := len(state.Processed); n > 0 {
		anchor = state.Processed[n-1]
	}

	if paused := state.PausedBranch; paused != "" {
		inProgress, err := c.runner.IsRebaseInProgress(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check rebase state: %w", err)
		}

		switch {
		case inProgress:
			result, err := c.runner.RebaseContinue(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to continue rebase of %s: %w", paused, err)
			}
			if result == git.RebaseConflict {
				return c.pausedResult(state), gserrors.NewRebaseConflictError(paused, "conflicts are not yet resolved")
			}
		case !state.PausedOnConflict:
			// The step never produced a rebase; run it again from the anchor
			c.logger.Debug("Retrying %s onto %s", paused, anchor)
			state.PausedBranch = ""
			if err := c.slot.Set(state); err != nil {
				return nil, err
			}
			return c.run(ctx, state, anchor, c.remaining(state))
		}

		// A conflicted rebase finished by hand needs no continuation
		c.logger.Info("Resolved rebase conflict for %s.", paused)
		state.Processed = append(state.Processed, paused)
		state.PausedBranch = ""
		state.PausedOnConflict = false
		if err := c.slot.Set(state); err != nil {
			return nil, err
		}
		anchor = paused
	}

	return c.run(ctx, state, anchor, c.remaining(state))
}

// remaining lists downstream branches not yet processed, in order
func (c *Cascade) remaining(state *config.CascadeState) []string {
	remaining := make([]string, 0, len(state.DownstreamBranches))
	for _, b := range state.DownstreamBranches {
		if !slices.Contains(state.Processed, b) {
			remaining = append(remaining, b)
		}
	}
	return remaining
}

// Abort cancels the cascade. An in-progress rebase is aborted first, which
// leaves the paused branch checked out at its original commit; if that fails
// the state is kept so the user can retry.
func (c *Cascade) Abort(ctx context.Context) (*Result, error) {
	state, err := c.slot.Get()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, gserrors.ErrNoCascadeInProgress
	}

	inProgress, err := c.runner.IsRebaseInProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check rebase state: %w", err)
	}
	if inProgress {
		if err := c.runner.RebaseAbort(ctx); err != nil {
			return nil, fmt.Errorf("failed to abort rebase: %w", err)
		}
	}

	if err := c.slot.Clear(); err != nil {
		return nil, err
	}

	return &Result{
		Status:       Aborted,
		PausedBranch: state.PausedBranch,
		StackName:    state.StackName,
		Processed:    slices.Clone(state.Processed),
	}, nil
}

// run rebases branches in order, each onto the previously rebased one
func (c *Cascade) run(ctx context.Context, state *config.CascadeState, anchor string, branches []string) (*Result, error) {
	for _, branch := range branches {
		if err := c.runner.CheckoutBranch(ctx, branch); err != nil {
			return c.pause(state, branch, false, fmt.Errorf("failed to check out %s: %w", branch, err))
		}

		result, err := c.runner.Rebase(ctx, anchor, branch)
		if err != nil {
			return c.pause(state, branch, false, fmt.Errorf("failed to rebase %s onto %s: %w", branch, anchor, err))
		}
		if result == git.RebaseConflict {
			return c.pause(state, branch, true, gserrors.NewRebaseConflictError(branch, fmt.Sprintf("conflict rebasing onto %s", anchor)))
		}

		c.logger.Info("Restacked %s on %s.", branch, anchor)
		state.Processed = append(state.Processed, branch)
		if err := c.slot.Set(state); err != nil {
			return nil, err
		}
		anchor = branch
	}

	if err := c.runner.CheckoutBranch(ctx, state.CurrentBranch); err != nil {
		return nil, fmt.Errorf("failed to return to %s: %w", state.CurrentBranch, err)
	}
	if err := c.slot.Clear(); err != nil {
		return nil, err
	}

	return &Result{
		Status:    Completed,
		StackName: state.StackName,
		Processed: slices.Clone(state.Processed),
	}, nil
}

func (c *Cascade) pause(state *config.CascadeState, branch string, conflict bool, cause error) (*Result, error) {
	state.PausedBranch = branch
	state.PausedOnConflict = conflict
	if err := c.slot.Set(state); err != nil {
		return nil, fmt.Errorf("%w (and failed to save cascade state: %v)", cause, err)
	}
	return c.pausedResult(state), cause
}

func (c *Cascade) pausedResult(state *config.CascadeState) *Result {
	return &Result{
		Status:       Paused,
		StackName:    state.StackName,
		Processed:    slices.Clone(state.Processed),
		PausedBranch: state.PausedBranch,
	}
}
