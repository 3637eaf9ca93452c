package tui_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/tui"
)

func TestRenderStackTree(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	rec := &stack.Record{
		BaseBranch:    "main",
		Branches:      []string{"api", "docs", "api-tests", "lost"},
		BranchParents: map[string]string{"api": "main", "docs": "main", "api-tests": "api", "lost": "lost"},
	}

	out := tui.RenderStackTree("feature", stack.BuildTree(rec), tui.TreeOptions{
		Current: "api-tests",
		Annotate: func(branch string) string {
			if branch == "api" {
				return "PR #7"
			}
			return ""
		},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "feature", lines[0])
	assert.Contains(t, lines[1], "main")
	assert.Contains(t, out, "◯ api PR #7")
	assert.Contains(t, out, "◉ api-tests (current)")
	assert.Contains(t, out, "◯ docs")
	assert.Contains(t, lines[len(lines)-1], "unreachable: lost")

	apiIdx := strings.Index(out, "api PR")
	testsIdx := strings.Index(out, "api-tests")
	docsIdx := strings.Index(out, "docs")
	assert.Less(t, apiIdx, testsIdx)
	assert.Less(t, testsIdx, docsIdx)
}
