package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_LevelsWriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "state transition", "from", "anonymous")
	log.Info(ctx, "data blob saved", "account_id", "acc-1")
	log.Warn(ctx, "dropping worker response with stale token")
	log.Error(ctx, "credential store failed", "error", "disk full")

	out := buf.String()

	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="state transition"`)
	assert.Contains(t, out, "from=anonymous")

	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "account_id=acc-1")

	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `error="disk full"`)
}

func TestSlogLogger_WithAddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	tagged := log.With("component", "auth-orchestrator")
	tagged.Info(ctx, "state transition", "to", "authenticated")

	out := buf.String()
	assert.Contains(t, out, "component=auth-orchestrator")
	assert.Contains(t, out, "to=authenticated")
}

func TestSlogLogger_WithDoesNotAffectParent(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	_ = log.With("component", "credential-worker")
	log.Info(ctx, "untagged")

	assert.NotContains(t, buf.String(), "component=")
}
