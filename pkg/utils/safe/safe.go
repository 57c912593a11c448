package safe

import (
	"context"
	"io"

	"github.com/m-mizutani/ctxlog"
)

// Close closes c and logs the failure instead of returning it. Meant for
// deferred cleanup where the close error cannot change the outcome.
func Close(ctx context.Context, c io.Closer) {
	if err := c.Close(); err != nil {
		logger := ctxlog.From(ctx)
		logger.Warn("failed to close resource", "error", err)
	}
}
