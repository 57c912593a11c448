package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/porter/pkg/utils/safe"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	t.Run("closes without logging on success", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		c := &closer{}
		safe.Close(ctx, c)

		gt.Value(t, c.closed).Equal(true)
		gt.Value(t, buf.Len()).Equal(0)
	})

	t.Run("logs close failure", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		c := &closer{err: errors.New("already closed")}
		safe.Close(ctx, c)

		gt.Value(t, c.closed).Equal(true)
		gt.Value(t, strings.Contains(buf.String(), "already closed")).Equal(true)
	})
}
