// Package symtabtest provides a conformance suite for [symtab.Ordered]
// implementations.
package symtabtest

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

// Factory creates an empty table.
type Factory func() symtab.Ordered[int, string]

// Checker verifies implementation invariants; it may be nil.
type Checker func(symtab.Ordered[int, string]) error

// Fixture is the canonical four-entry table used by the suite.
var Fixture = []symtab.Pair[int, string]{
	{Key: 3, Value: "A"},
	{Key: 1, Value: "B"},
	{Key: 2, Value: "C"},
	{Key: 5, Value: "E"},
}

// Fill adds pairs to t in order.
func Fill(t symtab.Table[int, string], pairs []symtab.Pair[int, string]) {
	for _, p := range pairs {
		t.Add(p.Key, p.Value)
	}
}

// Run executes the conformance suite against tables produced by newTable.
func Run(t *testing.T, newTable Factory, check Checker) {
	t.Helper()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		testEmpty(t, newTable())
	})
	t.Run("OrderStatistics", func(t *testing.T) {
		t.Parallel()
		testOrderStatistics(t, newTable())
	})
	t.Run("RangeCount", func(t *testing.T) {
		t.Parallel()
		testRangeCount(t, newTable())
	})
	t.Run("Range", func(t *testing.T) {
		t.Parallel()
		testRange(t, newTable())
	})
	t.Run("Overwrite", func(t *testing.T) {
		t.Parallel()
		testOverwrite(t, newTable())
	})
	t.Run("DeleteAll", func(t *testing.T) {
		t.Parallel()
		testDeleteAll(t, newTable, check)
	})
	t.Run("DeleteAbsent", func(t *testing.T) {
		t.Parallel()
		testDeleteAbsent(t, newTable())
	})
	t.Run("RandomOperations", func(t *testing.T) {
		t.Parallel()
		testRandomOperations(t, newTable(), check)
	})
}

func testEmpty(t *testing.T, table symtab.Ordered[int, string]) {
	t.Helper()

	assert.True(t, table.IsEmpty())
	assert.Equal(t, 0, table.Size())

	_, ok := table.TryGetMin()
	assert.False(t, ok)

	_, ok = table.TryGetMax()
	assert.False(t, ok)

	_, ok = table.TryGetFloor(1)
	assert.False(t, ok)

	_, ok = table.TryGetCeiling(1)
	assert.False(t, ok)

	_, ok = table.TryGet(1)
	assert.False(t, ok)

	assert.Equal(t, 0, table.Rank(1))
	assert.Equal(t, 0, table.RangeCount(0, 10))
	assert.Empty(t, symtab.Collect(table.Range(0, 10)))
	assert.Empty(t, slices.Collect(table.Keys()))
	assert.False(t, table.TryDelete(1))
}

func testOrderStatistics(t *testing.T, table symtab.Ordered[int, string]) {
	t.Helper()

	Fill(table, Fixture)

	minKey, ok := table.TryGetMin()
	require.True(t, ok)
	assert.Equal(t, 1, minKey)

	maxKey, ok := table.TryGetMax()
	require.True(t, ok)
	assert.Equal(t, 5, maxKey)

	floor, ok := table.TryGetFloor(4)
	require.True(t, ok)
	assert.Equal(t, 3, floor)

	ceiling, ok := table.TryGetCeiling(4)
	require.True(t, ok)
	assert.Equal(t, 5, ceiling)

	floor, ok = table.TryGetFloor(3)
	require.True(t, ok)
	assert.Equal(t, 3, floor)

	_, ok = table.TryGetFloor(0)
	assert.False(t, ok)

	_, ok = table.TryGetCeiling(6)
	assert.False(t, ok)

	assert.Equal(t, 3, table.Rank(4))
	assert.Equal(t, 0, table.Rank(1))
	assert.Equal(t, 4, table.Rank(9))

	assert.Equal(t, []int{1, 2, 3, 5}, slices.Collect(table.OrderedKeys()))
	assert.ElementsMatch(t, []string{"A", "B", "C", "E"}, slices.Collect(table.Values()))
	assert.Equal(t, 4, table.Size())
	assert.False(t, table.IsEmpty())
}

func testRangeCount(t *testing.T, table symtab.Ordered[int, string]) {
	t.Helper()

	Fill(table, Fixture)

	cases := []struct {
		lo, hi, want int
	}{
		{1, 3, 3},
		{4, 5, 1},
		{3, 4, 1},
		{2, 4, 2},
		{0, 7, 4},
		{6, 7, 0},
		{4, 2, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, table.RangeCount(tc.lo, tc.hi), "RangeCount(%d, %d)", tc.lo, tc.hi)
		assert.Len(t, symtab.Collect(table.Range(tc.lo, tc.hi)), tc.want, "Range(%d, %d)", tc.lo, tc.hi)
	}
}

func testRange(t *testing.T, table symtab.Ordered[int, string]) {
	t.Helper()

	Fill(table, Fixture)

	assert.Equal(t, []symtab.Pair[int, string]{{Key: 2, Value: "C"}, {Key: 3, Value: "A"}},
		symtab.Collect(table.Range(2, 4)))
	assert.Equal(t, []symtab.Pair[int, string]{{Key: 3, Value: "A"}}, symtab.Collect(table.Range(3, 4)))
	assert.Empty(t, symtab.Collect(table.Range(4, 4)))
	assert.Equal(t, []symtab.Pair[int, string]{{Key: 5, Value: "E"}}, symtab.Collect(table.Range(4, 5)))

	// Ranges are restartable.
	seq := table.Range(1, 5)
	assert.Len(t, symtab.Collect(seq), 4)
	assert.Len(t, symtab.Collect(seq), 4)
}

func testOverwrite(t *testing.T, table symtab.Ordered[int, string]) {
	t.Helper()

	Fill(table, Fixture)
	table.Add(3, "Z")

	val, ok := table.TryGet(3)
	require.True(t, ok)
	assert.Equal(t, "Z", val)
	assert.Equal(t, 4, table.Size())
}

func testDeleteAll(t *testing.T, newTable Factory, check Checker) {
	t.Helper()

	orders := [][]int{{3, 1, 2, 5}, {1, 2, 3, 5}, {5, 3, 2, 1}, {2, 5, 1, 3}}

	for _, order := range orders {
		table := newTable()
		Fill(table, Fixture)

		for _, k := range order {
			assert.True(t, table.TryDelete(k), "TryDelete(%d)", k)
			verify(t, table, check)
		}

		assert.True(t, table.IsEmpty(), "order %v", order)

		for _, k := range order {
			assert.False(t, table.Contains(k), "Contains(%d)", k)
		}
	}
}

func testDeleteAbsent(t *testing.T, table symtab.Ordered[int, string]) {
	t.Helper()

	Fill(table, Fixture)

	before := symtab.Collect(table.Range(0, 10))

	assert.False(t, table.TryDelete(4))
	assert.Equal(t, 4, table.Size())
	assert.Equal(t, before, symtab.Collect(table.Range(0, 10)))
}

// testRandomOperations mirrors a random operation sequence on a Go map and
// compares every answer.
func testRandomOperations(t *testing.T, table symtab.Ordered[int, string], check Checker) {
	t.Helper()

	const (
		operations = 2000
		keySpace   = 200
	)

	rng := rand.New(rand.NewPCG(1, 2))
	model := make(map[int]string)

	for i := range operations {
		key := rng.IntN(keySpace)

		if rng.IntN(3) == 0 {
			_, present := model[key]
			assert.Equal(t, present, table.TryDelete(key), "TryDelete(%d) at step %d", key, i)
			delete(model, key)
		} else {
			val := string(rune('a' + i%26))
			table.Add(key, val)
			model[key] = val
		}

		verify(t, table, check)
	}

	keys := make([]int, 0, len(model))
	for k := range model {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	assert.Equal(t, keys, slices.Collect(table.OrderedKeys()))
	assert.Equal(t, len(keys), table.Size())

	for probe := -1; probe <= keySpace; probe++ {
		rank, _ := slices.BinarySearch(keys, probe)
		assert.Equal(t, rank, table.Rank(probe), "Rank(%d)", probe)
	}
}

func verify(t *testing.T, table symtab.Ordered[int, string], check Checker) {
	t.Helper()

	if check == nil {
		return
	}

	require.NoError(t, check(table))
}
