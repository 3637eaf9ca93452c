// Package mergecheck decides which local branches have already landed on a
// reference branch, including squash and rebase merges that leave no
// ancestry behind.
package mergecheck

import (
	"context"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"gitstack.dev/gitstack/internal/git"
)

// Reason explains a verdict
type Reason string

const (
	// ReasonAllChangesInMain means every patch of the branch has an
	// equivalent on the reference
	ReasonAllChangesInMain Reason = "all-changes-in-main"
	// ReasonReachable means the branch tip is an ancestor of the reference
	ReasonReachable Reason = "reachable-from-main"
	// ReasonNoCommonAncestor means the histories are unrelated
	ReasonNoCommonAncestor Reason = "no-common-ancestor"
	// ReasonUnmergedChanges means at least one patch is missing upstream
	ReasonUnmergedChanges Reason = "has-unmerged-changes"
	// ReasonError means a query failed; the branch is kept
	ReasonError Reason = "error"
)

// Verdict is the result for one branch
type Verdict struct {
	Branch        string
	Merged        bool
	Reason        Reason
	UnmergedCount int
	IsAncestor    bool
	Err           error
}

// Report splits candidates into merged and unmerged, each sorted by name
type Report struct {
	Reference string
	Merged    []Verdict
	Unmerged  []Verdict
}

// MergedNames returns the names of merged branches
func (r *Report) MergedNames() []string {
	names := make([]string, 0, len(r.Merged))
	for _, v := range r.Merged {
		names = append(names, v.Branch)
	}
	return names
}

// Detector runs merge checks on a bounded number of goroutines
type Detector struct {
	runner      git.Runner
	concurrency int
}

// NewDetector creates a detector. A concurrency below one means one worker
// per CPU.
func NewDetector(runner git.Runner, concurrency int) *Detector {
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Detector{runner: runner, concurrency: concurrency}
}

// Check classifies a single branch against reference
func (d *Detector) Check(ctx context.Context, reference, branch string) Verdict {
	v := Verdict{Branch: branch}

	base, err := d.runner.GetMergeBase(ctx, reference, branch)
	if err != nil {
		return errorVerdict(v, err)
	}
	if base == "" {
		v.Reason = ReasonNoCommonAncestor
		return v
	}

	count, err := d.runner.CountUnmergedPatches(ctx, reference, branch)
	if err != nil {
		return errorVerdict(v, err)
	}
	v.UnmergedCount = count

	ancestor, err := d.runner.IsAncestor(ctx, branch, reference)
	if err != nil {
		return errorVerdict(v, err)
	}
	v.IsAncestor = ancestor

	switch {
	case count == 0:
		v.Merged = true
		v.Reason = ReasonAllChangesInMain
	case ancestor:
		v.Merged = true
		v.Reason = ReasonReachable
	default:
		v.Reason = ReasonUnmergedChanges
	}
	return v
}

func errorVerdict(v Verdict, err error) Verdict {
	v.Merged = false
	v.Reason = ReasonError
	v.Err = err
	return v
}

// Run checks every candidate against reference. Candidates equal to the
// reference or listed in exclude are skipped. Individual failures are
// reported as unmerged verdicts; only context cancellation aborts the run.
func (d *Detector) Run(ctx context.Context, reference string, candidates, exclude []string) (*Report, error) {
	var targets []string
	for _, b := range candidates {
		if b == reference || slices.Contains(exclude, b) || slices.Contains(targets, b) {
			continue
		}
		targets = append(targets, b)
	}

	verdicts := make([]Verdict, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, branch := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = d.Check(gctx, reference, branch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Reference: reference, Merged: []Verdict{}, Unmerged: []Verdict{}}
	for _, v := range verdicts {
		if v.Merged {
			report.Merged = append(report.Merged, v)
		} else {
			report.Unmerged = append(report.Unmerged, v)
		}
	}
	sort.Slice(report.Merged, func(i, j int) bool { return report.Merged[i].Branch < report.Merged[j].Branch })
	sort.Slice(report.Unmerged, func(i, j int) bool { return report.Unmerged[i].Branch < report.Unmerged[j].Branch })
	return report, nil
}
