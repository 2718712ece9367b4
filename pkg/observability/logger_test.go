package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

func newJSONLogger(buf *bytes.Buffer, env string, mode observability.AppMode) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewTracingHandler(inner, "symtab", env, mode))
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_StampsActiveSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "ci", observability.ModeCLI)

	ctx, span := tp.Tracer("test").Start(context.Background(), "symtab.query")
	logger.InfoContext(ctx, "floor", "key", 12)
	span.End()

	record := decodeRecord(t, &buf)
	sc := span.SpanContext()

	assert.Equal(t, sc.TraceID().String(), record["trace_id"])
	assert.Equal(t, sc.SpanID().String(), record["span_id"])
	assert.Equal(t, "ci", record["env"])
	assert.Equal(t, "cli", record["mode"])
	require.Len(t, recorder.Ended(), 1)
}

func TestTracingHandler_WithoutSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	newJSONLogger(&buf, "", observability.ModeVerify).InfoContext(context.Background(), "crosscheck done")

	record := decodeRecord(t, &buf)

	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "span_id")
	assert.NotContains(t, record, "env")
	assert.Equal(t, "symtab", record["service"])
	assert.Equal(t, "verify", record["mode"])
}

func TestTracingHandler_GroupsKeepServiceAtTopLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "", observability.ModeBench).
		With("order", "random").
		WithGroup("bench")

	logger.InfoContext(context.Background(), "tree built", "impl", "llrb", "height", 14)

	record := decodeRecord(t, &buf)

	assert.Equal(t, "symtab", record["service"])
	assert.Equal(t, "bench", record["mode"])
	assert.Equal(t, "random", record["order"])

	bench, ok := record["bench"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "llrb", bench["impl"])
	assert.InDelta(t, 14.0, bench["height"], 0)
	assert.NotContains(t, bench, "service")
}

func TestTracingHandler_Enabled(t *testing.T) {
	t.Parallel()

	inner := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	handler := observability.NewTracingHandler(inner, "symtab", "", observability.ModeCLI)

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}
