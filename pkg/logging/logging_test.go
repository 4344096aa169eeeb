package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, false, slog.LevelInfo)
	logger.Info("hello", "key", "value")
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "key=value")
}

func TestLoggerJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, true, slog.LevelInfo)
	logger.Info("hello", "key", "value")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "hello", record["msg"])
	require.Equal(t, "value", record["key"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, false, slog.LevelWarn)
	logger.Info("should be dropped")
	require.Empty(t, buf.String())
	logger.Warn("should appear")
	require.True(t, strings.Contains(buf.String(), "should appear"))
}

func TestAppendCtxAttachesAttrsToEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("request_id", "abc123"))
	logger.InfoContext(ctx, "handled request")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "abc123", record["request_id"])
}

func TestAppendCtxAccumulatesAcrossCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("a", "1"))
	ctx = AppendCtx(ctx, slog.String("b", "2"))
	logger.InfoContext(ctx, "msg")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "1", record["a"])
	require.Equal(t, "2", record["b"])
}
