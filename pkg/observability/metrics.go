package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	metricOperations        = "symtab.operations"
	metricOperationDuration = "symtab.operation.duration"
	metricTableSize         = "symtab.table.size"

	attrOp   = "op"
	attrImpl = "impl"
)

// DurationBuckets are the histogram boundaries, in seconds, of the operation
// latency. They span 100ns to 100ms, from a lookup in a shallow tree to a
// full scan of a degenerate one.
var DurationBuckets = []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3, 1e-2, 1e-1}

// tableViews installs DurationBuckets on the latency histogram.
func tableViews() []sdkmetric.View {
	return []sdkmetric.View{
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: metricOperationDuration},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: DurationBuckets}},
		),
	}
}

// NewMeterProvider returns an SDK meter provider reading through reader
// with the table views installed. Extra options, such as a resource, are
// applied after the views.
func NewMeterProvider(reader sdkmetric.Reader, opts ...sdkmetric.Option) *sdkmetric.MeterProvider {
	all := []sdkmetric.Option{
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(tableViews()...),
	}

	return sdkmetric.NewMeterProvider(append(all, opts...)...)
}

// TableMetrics holds the instruments recorded by Instrumented tables.
type TableMetrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
	size       metric.Int64Gauge
}

// NewTableMetrics creates the table instruments from mt.
func NewTableMetrics(mt metric.Meter) (*TableMetrics, error) {
	operations, err := mt.Int64Counter(metricOperations,
		metric.WithDescription("Symbol table operations by implementation and operation"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperations, err)
	}

	duration, err := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Symbol table operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationDuration, err)
	}

	size, err := mt.Int64Gauge(metricTableSize,
		metric.WithDescription("Number of keys after the last mutation"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTableSize, err)
	}

	return &TableMetrics{operations: operations, duration: duration, size: size}, nil
}

// RecordOp records one completed operation on the impl table.
func (tm *TableMetrics) RecordOp(ctx context.Context, impl, op string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrImpl, impl),
		attribute.String(attrOp, op),
	)

	tm.operations.Add(ctx, 1, attrs)
	tm.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordSize records the current key count of the impl table.
func (tm *TableMetrics) RecordSize(ctx context.Context, impl string, n int) {
	tm.size.Record(ctx, int64(n), metric.WithAttributes(attribute.String(attrImpl, impl)))
}
