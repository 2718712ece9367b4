// Package bench measures tree shape and operation cost for the symtab
// implementations across sizes and insertion orders.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/config"
	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

// Errors returned for unusable options.
var (
	ErrUnknownOrder = errors.New("unknown insertion order")
	ErrNegativeSize = errors.New("negative table size")
)

// Options selects what Run measures.
type Options struct {
	Sizes []int
	Impls []string
	Order string
	Seed  uint64
}

// Result is the measurement of one implementation at one size.
type Result struct {
	Impl   string
	Size   int
	Height int
	Build  time.Duration

	// Lookup covers one TryGet and one Rank per key.
	Lookup time.Duration
}

// PerLookup returns the mean cost of a single lookup.
func (r Result) PerLookup() time.Duration {
	if r.Size == 0 {
		return 0
	}

	return r.Lookup / time.Duration(2*r.Size)
}

// Keys returns the integers 0..n-1 in the given order. Random orders are
// deterministic for a seed.
func Keys(n int, order string, seed uint64) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSize, n)
	}

	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}

	switch order {
	case config.OrderSorted:
	case config.OrderReversed:
		slices.Reverse(keys)
	case config.OrderRandom:
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		rng.Shuffle(n, func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrder, order)
	}

	return keys, nil
}

// Run builds every implementation at every size and times the build and a
// lookup pass. Operations are recorded through metrics. Run stops between
// measurements when ctx is cancelled.
func Run(ctx context.Context, opts Options, metrics *observability.TableMetrics, logger *slog.Logger) ([]Result, error) {
	results := make([]Result, 0, len(opts.Sizes)*len(opts.Impls))

	for _, size := range opts.Sizes {
		keys, err := Keys(size, opts.Order, opts.Seed)
		if err != nil {
			return nil, err
		}

		for _, impl := range opts.Impls {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("bench interrupted: %w", err)
			}

			result, err := measure(ctx, impl, keys, metrics)
			if err != nil {
				return nil, err
			}

			logger.DebugContext(ctx, "measured",
				"impl", impl, "size", size, "height", result.Height, "build", result.Build)

			results = append(results, result)
		}
	}

	return results, nil
}

func measure(ctx context.Context, impl string, keys []int, metrics *observability.TableMetrics) (Result, error) {
	tree, err := tables.New[int](impl)
	if err != nil {
		return Result{}, err
	}

	table := observability.Instrument(ctx, tree, metrics, impl)

	start := time.Now()

	for _, k := range keys {
		table.Add(k, k)
	}

	build := time.Since(start)
	start = time.Now()

	for _, k := range keys {
		table.TryGet(k)
		table.Rank(k)
	}

	return Result{
		Impl:   impl,
		Size:   len(keys),
		Height: tree.Height(),
		Build:  build,
		Lookup: time.Since(start),
	}, nil
}
