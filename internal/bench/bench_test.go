package bench_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"

	"github.com/Sumatoshi-tech/symtab/internal/bench"
	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/config"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

func noopMetrics(t *testing.T) *observability.TableMetrics {
	t.Helper()

	tm, err := observability.NewTableMetrics(noopmetric.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	return tm
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKeys(t *testing.T) {
	t.Parallel()

	sorted, err := bench.Keys(5, config.OrderSorted, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted)

	reversed, err := bench.Keys(5, config.OrderReversed, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1, 0}, reversed)

	random, err := bench.Keys(100, config.OrderRandom, 7)
	require.NoError(t, err)

	again, err := bench.Keys(100, config.OrderRandom, 7)
	require.NoError(t, err)
	assert.Equal(t, random, again)

	assert.ElementsMatch(t, sortedRange(100), random)

	_, err = bench.Keys(5, "zigzag", 0)
	require.ErrorIs(t, err, bench.ErrUnknownOrder)

	_, err = bench.Keys(-1, config.OrderSorted, 0)
	require.ErrorIs(t, err, bench.ErrNegativeSize)
}

func sortedRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

func TestRun_SortedOrderDegeneratesUnbalancedTree(t *testing.T) {
	t.Parallel()

	results, err := bench.Run(context.Background(), bench.Options{
		Sizes: []int{64, 256},
		Impls: tables.Names(),
		Order: config.OrderSorted,
	}, noopMetrics(t), discard())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for _, r := range results {
		switch r.Impl {
		case tables.BST:
			assert.Equal(t, r.Size-1, r.Height, "bst size %d", r.Size)
		case tables.LLRB:
			assert.LessOrEqual(t, r.Height, 2*bits.Len(uint(r.Size)), "llrb size %d", r.Size)
		}
	}
}

func TestRun_UnknownImpl(t *testing.T) {
	t.Parallel()

	_, err := bench.Run(context.Background(), bench.Options{
		Sizes: []int{4},
		Impls: []string{"avl"},
		Order: config.OrderRandom,
	}, noopMetrics(t), discard())
	require.ErrorIs(t, err, tables.ErrUnknownImpl)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bench.Run(ctx, bench.Options{
		Sizes: []int{4},
		Impls: tables.Names(),
		Order: config.OrderRandom,
	}, noopMetrics(t), discard())
	require.ErrorIs(t, err, context.Canceled)
}

func TestResult_PerLookup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(5), int64(bench.Result{Size: 10, Lookup: 100}.PerLookup()))
	assert.Zero(t, bench.Result{}.PerLookup())
}

func TestPlot_RendersEverySeries(t *testing.T) {
	t.Parallel()

	results := []bench.Result{
		{Impl: tables.BST, Size: 100, Height: 99},
		{Impl: tables.LLRB, Size: 100, Height: 9},
		{Impl: tables.BST, Size: 10, Height: 9},
	}

	var buf bytes.Buffer

	require.NoError(t, bench.Plot(&buf, results))

	html := buf.String()
	assert.Contains(t, html, "Tree height by size")
	assert.Contains(t, html, tables.BST)
	assert.Contains(t, html, tables.LLRB)
	assert.Contains(t, html, "echarts")
}
