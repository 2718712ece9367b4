package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// BuildResource exposes buildResource for testing.
func BuildResource(cfg Config) (*resource.Resource, error) {
	return buildResource(cfg)
}

// RootSpanSampled starts one root span under the sampler Init would choose
// for cfg and reports whether it was recorded.
func RootSpanSampled(cfg Config) bool {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(append(samplerOptions(cfg), sdktrace.WithSpanProcessor(recorder))...)

	_, span := tp.Tracer("test").Start(context.Background(), "symtab.verify")
	span.End()

	sampled := len(recorder.Ended()) > 0

	_ = tp.Shutdown(context.Background())

	return sampled
}
