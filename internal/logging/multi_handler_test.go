package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandlerFanOut(t *testing.T) {
	var all, errsOnly bytes.Buffer
	multi := NewMultiHandler(
		slog.NewJSONHandler(&all, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errsOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(multi)

	log.Info("tool created", "slug", "chatgpt")
	log.Error("recompute failed", "tool_id", "x")

	assert.Contains(t, all.String(), "tool created")
	assert.Contains(t, all.String(), "recompute failed")
	assert.NotContains(t, errsOnly.String(), "tool created")
	assert.Contains(t, errsOnly.String(), "recompute failed")
}

func TestMultiHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	ctx := context.Background()
	require.False(t, multi.Enabled(ctx, slog.LevelInfo))
	assert.True(t, multi.Enabled(ctx, slog.LevelError))
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, levelFromEnv())

	t.Setenv("LOG_LEVEL", "WARN")
	assert.Equal(t, slog.LevelWarn, levelFromEnv())

	t.Setenv("LOG_LEVEL", "bogus")
	assert.Equal(t, slog.LevelInfo, levelFromEnv())
}
