package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gserrors "gitstack.dev/gitstack/internal/errors"
)

// PushBranch pushes a branch to the remote and sets its upstream.
// Without force it uses --force-with-lease, which still allows pushing a
// rebased branch but refuses to clobber commits someone else pushed.
func (r *realRunner) PushBranch(ctx context.Context, branchName string, force bool) error {
	remote := r.GetRemote(ctx)
	args := []string{"push", "-u", remote}
	if force {
		args = append(args, "--force")
	} else {
		args = append(args, "--force-with-lease")
	}
	args = append(args, branchName)

	_, err := r.cmd.Run(ctx, args...)
	if err != nil {
		var cmdErr *gserrors.GitCommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "stale info") {
			return fmt.Errorf("force-with-lease push of %s failed due to external changes to the remote branch; run 'gitstack sync' or use --force: %w", branchName, ErrStaleRemoteInfo)
		}
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}
	return nil
}
