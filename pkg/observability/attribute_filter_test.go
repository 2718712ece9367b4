package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

func recordSpan(t *testing.T, logger *slog.Logger, attrs ...attribute.KeyValue) map[string]any {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(attrs...)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	return spanAttrMap(spans[0])
}

func TestAttributeFilter_AllowsKnownNamespaces(t *testing.T) {
	t.Parallel()

	attrs := recordSpan(t, nil,
		attribute.String("symtab.impl", "llrb"),
		attribute.Int("bench.size", 1000),
		attribute.String("dataset.path", "pairs.yaml"),
		attribute.Int("verify.operations", 500),
		attribute.String("error.type", "timeout"),
		attribute.Bool("error", true),
	)

	assert.Equal(t, "llrb", attrs["symtab.impl"])
	assert.Equal(t, int64(1000), attrs["bench.size"])
	assert.Equal(t, "pairs.yaml", attrs["dataset.path"])
	assert.Equal(t, int64(500), attrs["verify.operations"])
	assert.Equal(t, "timeout", attrs["error.type"])
	assert.Equal(t, true, attrs["error"])
}

func TestAttributeFilter_DropsRawContents(t *testing.T) {
	t.Parallel()

	attrs := recordSpan(t, nil,
		attribute.Int("symtab.key", 42),
		attribute.String("symtab.value", "secret"),
		attribute.String("dataset.body", "pairs: []"),
		attribute.String("http.method", "GET"),
		attribute.String("symtab.impl", "bst"),
	)

	assert.NotContains(t, attrs, "symtab.key")
	assert.NotContains(t, attrs, "symtab.value")
	assert.NotContains(t, attrs, "dataset.body")
	assert.NotContains(t, attrs, "http.method")
	assert.Equal(t, "bst", attrs["symtab.impl"])
}

func TestAttributeFilter_WarnsWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	recordSpan(t, logger, attribute.String("user.secret", "val"))

	assert.Contains(t, buf.String(), "user.secret")
	assert.Contains(t, buf.String(), "dropped")
}

// spanAttrMap converts a span's attributes into a map for easy assertion.
func spanAttrMap(s tracetest.SpanStub) map[string]any {
	m := make(map[string]any, len(s.Attributes))
	for _, a := range s.Attributes {
		m[string(a.Key)] = a.Value.AsInterface()
	}

	return m
}
