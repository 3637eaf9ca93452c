package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// PrintConflictStatus displays conflict information and instructions to the user
func PrintConflictStatus(ctx *runtime.Context, branchName string) {
	splog := ctx.Splog
	splog.Info("%s", tui.ColorRed(fmt.Sprintf("Hit conflict restacking %s", branchName)))
	splog.Newline()

	unmergedFiles, err := ctx.Git.GetUnmergedFiles(ctx.Context)
	if err == nil && len(unmergedFiles) > 0 {
		splog.Info("%s", tui.ColorYellow("Unmerged files:"))
		for _, file := range unmergedFiles {
			splog.Info("%s", tui.ColorRed(file))
		}
		splog.Newline()
	}

	splog.Info("%s", tui.ColorYellow("To fix and continue restacking:"))
	splog.Info("(1) resolve the listed merge conflicts")
	splog.Info("(2) mark them as resolved with %s", tui.ColorCyan("git add ."))
	splog.Info("(3) run %s to rebase the remaining branches", tui.ColorCyan("gitstack continue"))
	splog.Info("To give up and return to where you started, run %s.", tui.ColorCyan("gitstack abort"))
}
