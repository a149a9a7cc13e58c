package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextAccumulates(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithModule(ctx, "Acme.Widgets")
	ctx = WithStage(ctx, "render")

	lc := GetContext(ctx)
	require.Equal(t, LogContext{RunID: "run-1", Module: "Acme.Widgets", Stage: "render"}, lc)

	// Later values replace earlier ones without touching the parent.
	inner := WithStage(ctx, "write")
	require.Equal(t, "write", GetContext(inner).Stage)
	require.Equal(t, "render", GetContext(ctx).Stage)
}

func TestEmptyContext(t *testing.T) {
	require.Equal(t, LogContext{}, GetContext(context.Background()))
	require.Empty(t, logAttrs(context.Background()))
}

func TestLogHelpersIncludeRunAttributes(t *testing.T) {
	buf := captureLogs(t)
	ctx := WithModule(WithRunID(context.Background(), "run-1"), "Acme.Widgets")

	InfoContext(ctx, "generation started", slog.Int("types", 3))
	WarnContext(ctx, "comment entry skipped")
	ErrorContext(ctx, "render failed")
	DebugContext(ctx, "page written")

	out := buf.String()
	require.Contains(t, out, "run_id=run-1")
	require.Contains(t, out, "module=Acme.Widgets")
	require.Contains(t, out, "types=3")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "level=DEBUG")
	require.NotContains(t, out, "stage=")
}
