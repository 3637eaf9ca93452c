package stack

import (
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
)

// arena indexes the nodes of a record so parent edges can be followed as
// integer pointers. Index 0 is always the base branch.
type arena struct {
	names  []string
	index  map[string]int
	parent []int
}

func newArena(r *Record) *arena {
	a := &arena{
		names: make([]string, 0, len(r.Branches)+1),
		index: make(map[string]int, len(r.Branches)+1),
	}
	a.add(r.BaseBranch)
	for _, b := range r.Branches {
		a.add(b)
	}

	a.parent = make([]int, len(a.names))
	a.parent[0] = -1
	for i := 1; i < len(a.names); i++ {
		p, _ := r.ParentOf(a.names[i])
		if pi, ok := a.index[p]; ok {
			a.parent[i] = pi
		} else {
			a.parent[i] = -1
		}
	}
	return a
}

func (a *arena) add(name string) {
	if _, ok := a.index[name]; ok {
		return
	}
	a.index[name] = len(a.names)
	a.names = append(a.names, name)
}

// findCycle returns a branch on a parent cycle, or "" when parent pointers
// form a forest.
func (a *arena) findCycle() string {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(a.names))
	for start := range a.names {
		if state[start] != unvisited {
			continue
		}
		var path []int
		n := start
		for n >= 0 && state[n] == unvisited {
			state[n] = inProgress
			path = append(path, n)
			n = a.parent[n]
		}
		if n >= 0 && state[n] == inProgress {
			return a.names[n]
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return ""
}

// validate checks that every resolved parent is the base or a member and that
// parent edges are acyclic.
func validate(r *Record) error {
	a := newArena(r)
	for i := 1; i < len(a.names); i++ {
		if a.parent[i] < 0 {
			p, _ := r.ParentOf(a.names[i])
			return fmt.Errorf("%w: %s has parent %s", gserrors.ErrInvalidParent, a.names[i], p)
		}
	}
	if branch := a.findCycle(); branch != "" {
		return fmt.Errorf("%w: through %s", gserrors.ErrCycle, branch)
	}
	return nil
}
