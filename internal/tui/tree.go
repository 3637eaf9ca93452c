package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"gitstack.dev/gitstack/internal/stack"
)

const (
	// CurrentBranchSymbol marks the checked-out branch in tree views
	CurrentBranchSymbol = "◉"
	// BranchSymbol marks every other branch
	BranchSymbol = "◯"
)

var enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1)

// TreeOptions configures RenderStackTree
type TreeOptions struct {
	// Index picks the stack's palette color
	Index int
	// Current is the checked-out branch, highlighted when present
	Current string
	// Annotate returns extra text shown after a branch name
	Annotate func(branch string) string
}

// RenderStackTree renders a stack rooted at its base branch:
//
//	feature-stack
//	╰── main
//	    ├── ◯ api
//	    │   ╰── ◉ api-tests (current)
//	    ╰── ◯ docs
func RenderStackTree(name string, t *stack.Tree, opts TreeOptions) string {
	root := tree.Root(ColorStackName(name, opts.Index))
	base := tree.Root(ColorDim(t.Root.Name))
	for _, child := range t.Root.Children {
		base.Child(renderNode(child, opts))
	}
	root.Child(base)
	style(root)

	out := root.String()
	if len(t.Orphans) > 0 {
		out += "\n" + ColorYellow("unreachable: "+strings.Join(t.Orphans, ", "))
	}
	return out + "\n"
}

func renderNode(n *stack.Node, opts TreeOptions) any {
	label := branchLabel(n.Name, opts)
	if len(n.Children) == 0 {
		return label
	}
	sub := tree.Root(label)
	for _, child := range n.Children {
		sub.Child(renderNode(child, opts))
	}
	return sub
}

func branchLabel(branch string, opts TreeOptions) string {
	isCurrent := branch == opts.Current
	symbol := BranchSymbol
	if isCurrent {
		symbol = CurrentBranchSymbol
	}
	label := symbol + " " + ColorBranchName(branch, isCurrent)
	if opts.Annotate != nil {
		if extra := opts.Annotate(branch); extra != "" {
			label += " " + extra
		}
	}
	return label
}

func style(t *tree.Tree) {
	t.Enumerator(tree.RoundedEnumerator).EnumeratorStyle(enumeratorStyle)
}
