package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextFields(t *testing.T) {
	ctx := WithBuildID(context.Background(), "b-1")
	ctx = WithStage(ctx, "navigation")
	ctx = WithTrigger(ctx, "preview")

	assert.Equal(t, LogContext{BuildID: "b-1", Stage: "navigation", Trigger: "preview"}, GetContext(ctx))
}

func TestWithStage_KeepsBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "b-1")
	inner := WithStage(ctx, "content")
	_ = WithStage(inner, "home")

	assert.Equal(t, "b-1", GetContext(inner).BuildID)
	assert.Equal(t, "content", GetContext(inner).Stage)
	assert.Empty(t, GetContext(ctx).Stage)
}

func TestAttrs_Empty(t *testing.T) {
	assert.Empty(t, Attrs(context.Background()))
}

func TestLogger_PrefixesContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx := WithStage(WithBuildID(context.Background(), "b-7"), "write")
	log.Warn(ctx, "slow write", slog.Int("count", 4))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "slow write", rec["msg"])
	assert.Equal(t, "b-7", rec["build_id"])
	assert.Equal(t, "write", rec["stage"])
	assert.InDelta(t, 4, rec["count"], 0)
}
