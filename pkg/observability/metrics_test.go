package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/symtab/pkg/observability"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/llrb"
)

func newReader(t *testing.T) (*sdkmetric.ManualReader, *observability.TableMetrics) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := observability.NewMeterProvider(reader)

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	tm, err := observability.NewTableMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return reader, tm
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

// counts maps op to the recorded operation count.
func counts(t *testing.T, m metricdata.Metrics) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "unexpected data type %T", m.Data)

	out := make(map[string]int64)

	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("op"))
		out[op.AsString()] += dp.Value
	}

	return out
}

func TestTableMetrics_RecordOp(t *testing.T) {
	t.Parallel()

	reader, tm := newReader(t)

	tm.RecordOp(context.Background(), "bst", observability.OpAdd, time.Microsecond)
	tm.RecordOp(context.Background(), "bst", observability.OpAdd, time.Microsecond)
	tm.RecordOp(context.Background(), "bst", observability.OpRank, time.Millisecond)

	metrics := collect(t, reader)

	assert.Equal(t, map[string]int64{"add": 2, "rank": 1}, counts(t, metrics["symtab.operations"]))

	hist, ok := metrics["symtab.operation.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}

	assert.Equal(t, uint64(3), total)

	for _, dp := range hist.DataPoints {
		assert.Equal(t, observability.DurationBuckets, dp.Bounds)
	}
}

func TestInstrument_RecordsEveryOperation(t *testing.T) {
	t.Parallel()

	reader, tm := newReader(t)

	table := observability.Instrument(context.Background(), llrb.New[int, string](), tm, "llrb")

	table.Add(3, "A")
	table.Add(1, "B")
	table.Add(2, "C")

	val, ok := table.TryGet(2)
	require.True(t, ok)
	assert.Equal(t, "C", val)

	assert.True(t, table.Contains(1))
	assert.Equal(t, 1, table.Rank(2))
	assert.Equal(t, 2, table.RangeCount(1, 2))

	floor, ok := table.TryGetFloor(5)
	require.True(t, ok)
	assert.Equal(t, 3, floor)

	var keys []int
	for k := range table.Range(1, 3) {
		keys = append(keys, k)
	}

	assert.Equal(t, []int{1, 2, 3}, keys)
	assert.True(t, table.TryDelete(1))
	assert.False(t, table.TryDelete(9))
	assert.Equal(t, 2, table.Size())

	metrics := collect(t, reader)

	assert.Equal(t, map[string]int64{
		"add":         3,
		"get":         1,
		"contains":    1,
		"rank":        1,
		"range_count": 1,
		"floor":       1,
		"range":       1,
		"delete":      2,
	}, counts(t, metrics["symtab.operations"]))

	gauge, ok := metrics["symtab.table.size"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(2), gauge.DataPoints[0].Value)
}

func TestInstrument_UnwrapReturnsTable(t *testing.T) {
	t.Parallel()

	_, tm := newReader(t)

	inner := llrb.New[int, string]()
	table := observability.Instrument(context.Background(), inner, tm, "llrb")

	table.Add(1, "x")
	assert.Same(t, inner, table.Unwrap())
	assert.Equal(t, 1, inner.Size())
}
