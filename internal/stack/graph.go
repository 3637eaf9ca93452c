package stack

import (
	"fmt"
	"slices"
	"sort"
	"time"

	gserrors "gitstack.dev/gitstack/internal/errors"
)

// Store persists the stacks file. Update runs fn inside a single
// load-mutate-save transaction; the mutation is discarded if fn fails.
type Store interface {
	Load() (File, error)
	Update(fn func(File) error) error
}

// Graph answers structural queries about the stacks of one repository and
// applies mutations through the store.
type Graph struct {
	store  Store
	repoID string
	trunk  string
	now    func() time.Time
}

// NewGraph binds a graph to a store and repository identity. An empty repoID
// means no repository could be resolved: queries see no stacks and
// mutations fail with ErrNotInRepo.
func NewGraph(store Store, repoID, trunk string) *Graph {
	return &Graph{
		store:  store,
		repoID: repoID,
		trunk:  trunk,
		now:    time.Now,
	}
}

// RepoID returns the repository identity the graph is bound to
func (g *Graph) RepoID() string {
	return g.repoID
}

// Trunk returns the trunk branch name used as the "no stack" parent
func (g *Graph) Trunk() string {
	return g.trunk
}

func (g *Graph) repoStacks() (RepoStacks, error) {
	if g.repoID == "" {
		return RepoStacks{}, nil
	}
	file, err := g.store.Load()
	if err != nil {
		return nil, err
	}
	stacks := file[g.repoID]
	if stacks == nil {
		return RepoStacks{}, nil
	}
	return stacks, nil
}

func sortedNames(stacks RepoStacks) []string {
	names := make([]string, 0, len(stacks))
	for name := range stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findIn returns the first stack, by name, that has branch as a member
func findIn(stacks RepoStacks, branch string) (string, *Record) {
	for _, name := range sortedNames(stacks) {
		if rec := stacks[name]; rec != nil && rec.Contains(branch) {
			return name, rec
		}
	}
	return "", nil
}

// Find returns the stack that has branch as a member. A branch that only
// appears as a base or in a parent map is not staged; Find then returns a
// nil record.
func (g *Graph) Find(branch string) (string, *Record, error) {
	stacks, err := g.repoStacks()
	if err != nil {
		return "", nil, err
	}
	name, rec := findIn(stacks, branch)
	if rec == nil {
		return "", nil, nil
	}
	return name, rec.Clone(), nil
}

// ParentOf returns the resolved parent of branch, or the trunk name when the
// branch is not staged.
func (g *Graph) ParentOf(branch string) (string, error) {
	_, rec, err := g.Find(branch)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return g.trunk, nil
	}
	parent, _ := rec.ParentOf(branch)
	return parent, nil
}

// ChildrenOf returns the branches whose resolved parent is branch, across
// every stack where branch is the base or a member.
func (g *Graph) ChildrenOf(branch string) ([]string, error) {
	stacks, err := g.repoStacks()
	if err != nil {
		return nil, err
	}

	children := []string{}
	for _, name := range sortedNames(stacks) {
		rec := stacks[name]
		if rec == nil || (rec.BaseBranch != branch && !rec.Contains(branch)) {
			continue
		}
		for _, c := range rec.ChildrenOf(branch) {
			if !slices.Contains(children, c) {
				children = append(children, c)
			}
		}
	}
	return children, nil
}

// Downstream returns the owning stack and the members after branch in
// insertion order, which is the order a cascade rebases them.
func (g *Graph) Downstream(branch string) (string, []string, error) {
	name, rec, err := g.Find(branch)
	if err != nil {
		return "", nil, err
	}
	if rec == nil {
		return "", nil, fmt.Errorf("%w: %s", gserrors.ErrNotStaged, branch)
	}
	return name, rec.After(branch), nil
}

// Stacks returns a copy of every stack of the repository
func (g *Graph) Stacks() (RepoStacks, error) {
	stacks, err := g.repoStacks()
	if err != nil {
		return nil, err
	}
	out := make(RepoStacks, len(stacks))
	for name, rec := range stacks {
		if rec != nil {
			out[name] = rec.Clone()
		}
	}
	return out, nil
}

// StackNames returns the repository's stack names, sorted
func (g *Graph) StackNames() ([]string, error) {
	stacks, err := g.repoStacks()
	if err != nil {
		return nil, err
	}
	return sortedNames(stacks), nil
}

// Stack returns a copy of the named stack
func (g *Graph) Stack(name string) (*Record, error) {
	stacks, err := g.repoStacks()
	if err != nil {
		return nil, err
	}
	rec := stacks[name]
	if rec == nil {
		return nil, gserrors.NewStackNotFoundError(name)
	}
	return rec.Clone(), nil
}

// BuildTree returns the named stack arranged by parent edges
func (g *Graph) BuildTree(name string) (*Tree, error) {
	rec, err := g.Stack(name)
	if err != nil {
		return nil, err
	}
	return BuildTree(rec), nil
}

// CreateStack creates an empty stack on base. An existing stack with the
// same name is only replaced when overwrite is set.
func (g *Graph) CreateStack(name, base string, overwrite bool) error {
	if name == "" || base == "" {
		return fmt.Errorf("stack name and base branch are required")
	}
	if g.repoID == "" {
		return gserrors.ErrNotInRepo
	}

	return g.store.Update(func(file File) error {
		stacks := file[g.repoID]
		if stacks == nil {
			stacks = RepoStacks{}
			file[g.repoID] = stacks
		}
		if _, exists := stacks[name]; exists && !overwrite {
			return fmt.Errorf("%w: %s", gserrors.ErrStackExists, name)
		}
		stacks[name] = NewRecord(base, g.now())
		return nil
	})
}

// DeleteStack removes the named stack record. Its branches are left alone.
// Deleting a missing stack is a no-op.
func (g *Graph) DeleteStack(name string) error {
	if g.repoID == "" {
		return gserrors.ErrNotInRepo
	}

	return g.store.Update(func(file File) error {
		stacks := file[g.repoID]
		delete(stacks, name)
		if len(stacks) == 0 {
			delete(file, g.repoID)
		}
		return nil
	})
}

// AddBranch appends branch to the named stack, recording an explicit parent
// edge when parent is set. Adding a branch that is already a member is a
// no-op. The parent must be the base or a member, and the resulting parent
// edges must stay acyclic.
func (g *Graph) AddBranch(stackName, branch, parent string) error {
	if g.repoID == "" {
		return gserrors.ErrNotInRepo
	}

	return g.store.Update(func(file File) error {
		stacks := file[g.repoID]
		rec := stacks[stackName]
		if rec == nil {
			return gserrors.NewStackNotFoundError(stackName)
		}
		if rec.Contains(branch) {
			return nil
		}
		if branch == rec.BaseBranch {
			return fmt.Errorf("%w: %s is the base of stack %s", gserrors.ErrInvalidParent, branch, stackName)
		}
		if other, _ := findIn(stacks, branch); other != "" {
			return fmt.Errorf("branch %s already belongs to stack %s", branch, other)
		}
		if parent != "" && parent != rec.BaseBranch && !rec.Contains(parent) {
			return fmt.Errorf("%w: %s is not in stack %s", gserrors.ErrInvalidParent, parent, stackName)
		}

		next := rec.Clone()
		next.Branches = append(next.Branches, branch)
		if parent != "" {
			next.setParent(branch, parent)
		}
		if err := validate(next); err != nil {
			return err
		}
		stacks[stackName] = next
		return nil
	})
}

// RemoveBranch drops branch from every stack containing it and deletes
// stacks left empty. It is a no-op for unstaged branches and outside a
// repository.
func (g *Graph) RemoveBranch(branch string) error {
	if g.repoID == "" {
		return nil
	}

	staged, err := g.isStaged(branch)
	if err != nil || !staged {
		return err
	}

	return g.store.Update(func(file File) error {
		stacks := file[g.repoID]
		for name, rec := range stacks {
			if rec == nil || !rec.remove(branch) {
				continue
			}
			if len(rec.Branches) == 0 {
				delete(stacks, name)
			}
		}
		if len(stacks) == 0 {
			delete(file, g.repoID)
		}
		return nil
	})
}

func (g *Graph) isStaged(branch string) (bool, error) {
	_, rec, err := g.Find(branch)
	return rec != nil, err
}
