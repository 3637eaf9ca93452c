package stack

// Node is a branch in a rendered stack tree
type Node struct {
	Name     string
	Children []*Node
}

// Tree is a stack arranged by parent edges, rooted at the base branch.
// Orphans lists members that cannot be reached from the base, which only
// happens with hand-edited or otherwise malformed records.
type Tree struct {
	Root    *Node
	Orphans []string
}

// BuildTree arranges a record's members under their resolved parents.
// Siblings keep insertion order.
func BuildTree(r *Record) *Tree {
	root := &Node{Name: r.BaseBranch}
	seen := map[string]bool{r.BaseBranch: true}

	var attach func(n *Node)
	attach = func(n *Node) {
		for _, child := range r.ChildrenOf(n.Name) {
			if seen[child] {
				continue
			}
			seen[child] = true
			c := &Node{Name: child}
			n.Children = append(n.Children, c)
			attach(c)
		}
	}
	attach(root)

	tree := &Tree{Root: root}
	for _, b := range r.Branches {
		if !seen[b] {
			tree.Orphans = append(tree.Orphans, b)
		}
	}
	return tree
}

// Walk visits nodes depth-first, parents before children, with their depth
// below the root.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(t.Root, 0)
}

// Branches returns member names in depth-first order, excluding the root
func (t *Tree) Branches() []string {
	var names []string
	t.Walk(func(n *Node, depth int) {
		if depth > 0 {
			names = append(names, n.Name)
		}
	})
	return names
}
