// Package stack holds the stack data model: named chains of branches
// descending from a base branch, with explicit parent edges and a positional
// fallback for records written before parent tracking existed.
package stack

import (
	"maps"
	"slices"
	"time"
)

// Record is a single stack. Branches keeps insertion order and never
// contains BaseBranch.
type Record struct {
	BaseBranch    string            `json:"baseBranch"`
	Branches      []string          `json:"branches"`
	BranchParents map[string]string `json:"branchParents,omitempty"`
	Created       time.Time         `json:"created"`
}

// RepoStacks maps stack names to records for one repository
type RepoStacks map[string]*Record

// File is the entire persisted state, keyed by repository identity
type File map[string]RepoStacks

// NewRecord creates an empty stack on base
func NewRecord(base string, created time.Time) *Record {
	return &Record{
		BaseBranch: base,
		Branches:   []string{},
		Created:    created.UTC().Truncate(time.Second),
	}
}

// Contains reports whether branch is a member of the stack
func (r *Record) Contains(branch string) bool {
	return slices.Contains(r.Branches, branch)
}

// ParentOf resolves the parent of a member branch: the explicit edge when one
// is recorded, otherwise the branch immediately before it in
// [BaseBranch, Branches...]. The second result is false for non-members.
func (r *Record) ParentOf(branch string) (string, bool) {
	idx := slices.Index(r.Branches, branch)
	if idx < 0 {
		return "", false
	}
	if parent, ok := r.BranchParents[branch]; ok {
		return parent, true
	}
	if idx == 0 {
		return r.BaseBranch, true
	}
	return r.Branches[idx-1], true
}

// HasExplicitParent reports whether branch has a recorded parent edge
func (r *Record) HasExplicitParent(branch string) bool {
	_, ok := r.BranchParents[branch]
	return ok
}

// ChildrenOf returns the members whose resolved parent is branch, in
// insertion order. Resolution is per branch, so records mixing explicit and
// positional parents are handled edge by edge.
func (r *Record) ChildrenOf(branch string) []string {
	children := []string{}
	for _, candidate := range r.Branches {
		if parent, _ := r.ParentOf(candidate); parent == branch {
			children = append(children, candidate)
		}
	}
	return children
}

// After returns the members strictly after branch in insertion order
func (r *Record) After(branch string) []string {
	idx := slices.Index(r.Branches, branch)
	if idx < 0 {
		return nil
	}
	return slices.Clone(r.Branches[idx+1:])
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	c := &Record{
		BaseBranch: r.BaseBranch,
		Branches:   slices.Clone(r.Branches),
		Created:    r.Created,
	}
	if c.Branches == nil {
		c.Branches = []string{}
	}
	if len(r.BranchParents) > 0 {
		c.BranchParents = maps.Clone(r.BranchParents)
	}
	return c
}

// setParent records an explicit edge
func (r *Record) setParent(branch, parent string) {
	if r.BranchParents == nil {
		r.BranchParents = make(map[string]string)
	}
	r.BranchParents[branch] = parent
}

// remove deletes branch from the member list and parent map. Explicit
// children of branch are re-pointed at its resolved parent.
func (r *Record) remove(branch string) bool {
	parent, ok := r.ParentOf(branch)
	if !ok {
		return false
	}
	for child, p := range r.BranchParents {
		if p == branch {
			r.BranchParents[child] = parent
		}
	}
	r.Branches = slices.DeleteFunc(r.Branches, func(b string) bool { return b == branch })
	delete(r.BranchParents, branch)
	if len(r.BranchParents) == 0 {
		r.BranchParents = nil
	}
	return true
}
