// Package symtab defines the ordered symbol table contract implemented by the
// search trees in this module: a map from unique, totally ordered keys to
// values that also answers order-statistics queries (min, max, floor,
// ceiling, rank, range).
//
// Implementations live in sub-packages:
//   - [github.com/Sumatoshi-tech/symtab/pkg/symtab/bst] is an unbalanced
//     binary search tree.
//   - [github.com/Sumatoshi-tech/symtab/pkg/symtab/llrb] is a left-leaning
//     red-black tree with logarithmic height.
//
// None of the implementations are safe for concurrent use. Callers sharing a
// table between goroutines must serialize access themselves.
package symtab

import (
	"cmp"
	"errors"
	"iter"
)

// Sentinel errors.
var (
	// ErrUnsupported is returned or wrapped by tables that decline an
	// operation instead of risking a broken invariant.
	ErrUnsupported = errors.New("symtab: operation not supported")

	// ErrOrder reports a tree whose in-order keys are not strictly ascending.
	ErrOrder = errors.New("symtab: keys out of order")

	// ErrSize reports a node whose subtree size is not 1 + size(left) + size(right).
	ErrSize = errors.New("symtab: subtree size mismatch")
)

// CompareFunc is a three-way comparator: negative when a < b, zero when
// a == b, positive when a > b.
type CompareFunc[K any] func(a, b K) int

// Table is an unordered view of a symbol table.
type Table[K, V any] interface {
	// Add inserts key with val, overwriting the value of an existing key.
	Add(key K, val V)

	// TryGet returns the value stored under key. The returned value is the
	// zero V when the key is absent.
	TryGet(key K) (V, bool)

	// Contains reports whether key is present.
	Contains(key K) bool

	// TryDelete removes key and reports whether it was present.
	TryDelete(key K) bool

	// IsEmpty reports whether the table holds no keys.
	IsEmpty() bool

	// Size returns the number of keys.
	Size() int

	// Keys returns every key. The order is unspecified.
	Keys() iter.Seq[K]

	// Values returns every value. The order is unspecified.
	Values() iter.Seq[V]
}

// Ordered is a symbol table over totally ordered keys.
type Ordered[K, V any] interface {
	Table[K, V]

	// TryGetMin returns the smallest key. It fails only on an empty table.
	TryGetMin() (K, bool)

	// TryGetMax returns the largest key. It fails only on an empty table.
	TryGetMax() (K, bool)

	// TryGetFloor returns the largest key less than or equal to key.
	TryGetFloor(key K) (K, bool)

	// TryGetCeiling returns the smallest key greater than or equal to key.
	TryGetCeiling(key K) (K, bool)

	// Rank returns the number of keys strictly less than key.
	// The key does not need to be present.
	Rank(key K) int

	// OrderedKeys returns every key in ascending order.
	OrderedKeys() iter.Seq[K]

	// RangeCount returns the number of keys in [lo, hi].
	RangeCount(lo, hi K) int

	// Range returns, in ascending key order, every pair with lo <= key <= hi.
	Range(lo, hi K) iter.Seq2[K, V]
}

// Pair is a key with its value.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Collect drains a pair sequence, typically one returned by Range.
func Collect[K, V any](seq iter.Seq2[K, V]) []Pair[K, V] {
	var pairs []Pair[K, V]

	for k, v := range seq {
		pairs = append(pairs, Pair[K, V]{Key: k, Value: v})
	}

	return pairs
}

// Natural returns the comparator of K's standard Go ordering.
func Natural[K cmp.Ordered]() CompareFunc[K] {
	return cmp.Compare[K]
}

// RangeCount computes the size of [lo, hi] from ranks, the way every tree in
// this module does: Rank(hi) - Rank(lo), plus one when hi itself is present.
// It returns 0 when lo > hi.
func RangeCount[K, V any](t Ordered[K, V], compare CompareFunc[K], lo, hi K) int {
	if compare(lo, hi) > 0 {
		return 0
	}

	n := t.Rank(hi) - t.Rank(lo)
	if t.Contains(hi) {
		n++
	}

	return n
}
