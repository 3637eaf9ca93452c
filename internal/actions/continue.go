package actions

import (
	"errors"
	"fmt"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/runtime"
)

// ContinueAction resumes a paused restack once the conflict is resolved
func ContinueAction(ctx *runtime.Context) error {
	result, err := ctx.Cascade.Continue(ctx.Context)
	if errors.Is(err, gserrors.ErrNoCascadeInProgress) {
		return fmt.Errorf("%w: nothing to continue", err)
	}
	return reportCascade(ctx, result, err)
}
