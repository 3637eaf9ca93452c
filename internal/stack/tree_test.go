package stack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitstack.dev/gitstack/internal/stack"
)

func TestBuildTree(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		record   *stack.Record
		order    []string
		depths   map[string]int
		orphans  []string
		rootKids []string
	}{
		{
			name:     "linear legacy chain",
			record:   &stack.Record{BaseBranch: "main", Branches: []string{"a", "b", "c"}},
			order:    []string{"a", "b", "c"},
			depths:   map[string]int{"a": 1, "b": 2, "c": 3},
			rootKids: []string{"a"},
		},
		{
			name: "forest under the base",
			record: &stack.Record{
				BaseBranch:    "main",
				Branches:      []string{"a", "b", "a1", "b1"},
				BranchParents: map[string]string{"a": "main", "b": "main", "a1": "a", "b1": "b"},
			},
			order:    []string{"a", "a1", "b", "b1"},
			depths:   map[string]int{"a": 1, "a1": 2, "b": 1, "b1": 2},
			rootKids: []string{"a", "b"},
		},
		{
			name: "unreachable members are orphans",
			record: &stack.Record{
				BaseBranch:    "main",
				Branches:      []string{"a", "x", "y"},
				BranchParents: map[string]string{"a": "main", "x": "y", "y": "x"},
			},
			order:    []string{"a"},
			depths:   map[string]int{"a": 1},
			orphans:  []string{"x", "y"},
			rootKids: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := stack.BuildTree(tt.record)

			assert.Equal(t, tt.record.BaseBranch, tree.Root.Name)
			assert.Equal(t, tt.order, tree.Branches())
			assert.Equal(t, tt.orphans, tree.Orphans)

			var kids []string
			for _, c := range tree.Root.Children {
				kids = append(kids, c.Name)
			}
			assert.Equal(t, tt.rootKids, kids)

			depths := map[string]int{}
			tree.Walk(func(n *stack.Node, depth int) {
				if depth > 0 {
					depths[n.Name] = depth
				}
			})
			assert.Equal(t, tt.depths, depths)
		})
	}
}
