package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
		FromContext(context.Background())
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := With(WithLogger(context.Background(), logger), "session", "abc")
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "session=abc")

	assert.NotPanics(t, func() { FromContext(Discard(context.Background())).Info("dropped") })
}
