package observability

import (
	"context"
	"iter"
	"time"

	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

// Operation names recorded by Instrumented.
const (
	OpAdd         = "add"
	OpGet         = "get"
	OpContains    = "contains"
	OpDelete      = "delete"
	OpMin         = "min"
	OpMax         = "max"
	OpFloor       = "floor"
	OpCeiling     = "ceiling"
	OpRank        = "rank"
	OpRangeCount  = "range_count"
	OpRange       = "range"
	OpKeys        = "keys"
	OpValues      = "values"
	OpOrderedKeys = "ordered_keys"
)

// Instrumented is a [symtab.Ordered] that records every call on the wrapped
// table. Iteration is timed from the first to the last yielded element.
// Size and IsEmpty are not recorded.
type Instrumented[K, V any] struct {
	table   symtab.Ordered[K, V]
	metrics *TableMetrics
	impl    string
	ctx     context.Context //nolint:containedctx // carries the command span for exemplars.
}

var _ symtab.Ordered[int, int] = (*Instrumented[int, int])(nil)

// Instrument wraps table; impl labels its measurements. ctx is used for every
// recording and should carry the span of the command that owns the table.
func Instrument[K, V any](ctx context.Context, table symtab.Ordered[K, V], metrics *TableMetrics, impl string) *Instrumented[K, V] {
	return &Instrumented[K, V]{table: table, metrics: metrics, impl: impl, ctx: ctx}
}

// Unwrap returns the wrapped table.
func (in *Instrumented[K, V]) Unwrap() symtab.Ordered[K, V] {
	return in.table
}

func (in *Instrumented[K, V]) observe(op string) func() {
	start := time.Now()

	return func() {
		in.metrics.RecordOp(in.ctx, in.impl, op, time.Since(start))
	}
}

func (in *Instrumented[K, V]) Add(key K, val V) {
	done := in.observe(OpAdd)
	in.table.Add(key, val)
	done()

	in.metrics.RecordSize(in.ctx, in.impl, in.table.Size())
}

func (in *Instrumented[K, V]) TryGet(key K) (V, bool) {
	defer in.observe(OpGet)()

	return in.table.TryGet(key)
}

func (in *Instrumented[K, V]) Contains(key K) bool {
	defer in.observe(OpContains)()

	return in.table.Contains(key)
}

func (in *Instrumented[K, V]) TryDelete(key K) bool {
	done := in.observe(OpDelete)
	deleted := in.table.TryDelete(key)
	done()

	if deleted {
		in.metrics.RecordSize(in.ctx, in.impl, in.table.Size())
	}

	return deleted
}

func (in *Instrumented[K, V]) IsEmpty() bool { return in.table.IsEmpty() }
func (in *Instrumented[K, V]) Size() int     { return in.table.Size() }

func (in *Instrumented[K, V]) Keys() iter.Seq[K] {
	return observeSeq(in, OpKeys, in.table.Keys())
}

func (in *Instrumented[K, V]) Values() iter.Seq[V] {
	return observeSeq(in, OpValues, in.table.Values())
}

func (in *Instrumented[K, V]) OrderedKeys() iter.Seq[K] {
	return observeSeq(in, OpOrderedKeys, in.table.OrderedKeys())
}

func (in *Instrumented[K, V]) TryGetMin() (K, bool) {
	defer in.observe(OpMin)()

	return in.table.TryGetMin()
}

func (in *Instrumented[K, V]) TryGetMax() (K, bool) {
	defer in.observe(OpMax)()

	return in.table.TryGetMax()
}

func (in *Instrumented[K, V]) TryGetFloor(key K) (K, bool) {
	defer in.observe(OpFloor)()

	return in.table.TryGetFloor(key)
}

func (in *Instrumented[K, V]) TryGetCeiling(key K) (K, bool) {
	defer in.observe(OpCeiling)()

	return in.table.TryGetCeiling(key)
}

func (in *Instrumented[K, V]) Rank(key K) int {
	defer in.observe(OpRank)()

	return in.table.Rank(key)
}

func (in *Instrumented[K, V]) RangeCount(lo, hi K) int {
	defer in.observe(OpRangeCount)()

	return in.table.RangeCount(lo, hi)
}

func (in *Instrumented[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	seq := in.table.Range(lo, hi)

	return func(yield func(K, V) bool) {
		defer in.observe(OpRange)()

		for k, v := range seq {
			if !yield(k, v) {
				return
			}
		}
	}
}

func observeSeq[K, V, E any](in *Instrumented[K, V], op string, seq iter.Seq[E]) iter.Seq[E] {
	return func(yield func(E) bool) {
		defer in.observe(op)()

		for e := range seq {
			if !yield(e) {
				return
			}
		}
	}
}
