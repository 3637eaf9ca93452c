package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
)

// InitOptions contains options for the init command
type InitOptions struct {
	Trunk string
}

// InitAction records the trunk branch in the repository config
func InitAction(ctx *runtime.Context, opts InitOptions) error {
	trunk := opts.Trunk
	if trunk == "" {
		detected, err := detectTrunk(ctx)
		if err != nil {
			return err
		}
		trunk = detected
	}

	exists, err := ctx.Git.BranchExists(ctx.Context, trunk)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("trunk branch %s does not exist", trunk)
	}

	if err := config.SetTrunk(ctx.RepoRoot, trunk); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	ctx.Splog.Info("Trunk set to %s.", tui.ColorBranchName(trunk, false))
	if ctx.RepoID == "" {
		ctx.Splog.Tip("Add a remote so gitstack can record stacks for this repository.")
	}
	return nil
}

// detectTrunk returns the first of the known trunk names that exists locally
func detectTrunk(ctx *runtime.Context) (string, error) {
	for _, candidate := range ctx.Config.AllTrunks() {
		exists, err := ctx.Git.BranchExists(ctx.Context, candidate)
		if err != nil {
			return "", err
		}
		if exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not detect a trunk branch, pass --trunk")
}
