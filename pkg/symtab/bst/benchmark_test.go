package bst_test

import (
	"math/rand/v2"
	"testing"

	"github.com/Sumatoshi-tech/symtab/pkg/symtab/bst"
)

// Benchmark constants.
const (
	benchKeyCount = 10000
	benchRangeLo  = 2500
	benchRangeHi  = 7500
)

func benchTree() *bst.Tree[int, int] {
	tree := bst.New[int, int]()

	for _, k := range rand.New(rand.NewPCG(1, 1)).Perm(benchKeyCount) {
		tree.Add(k, k)
	}

	return tree
}

// BenchmarkAdd_Random benchmarks inserting shuffled keys.
func BenchmarkAdd_Random(b *testing.B) {
	perm := rand.New(rand.NewPCG(1, 1)).Perm(benchKeyCount)

	for range b.N {
		tree := bst.New[int, int]()

		for _, k := range perm {
			tree.Add(k, k)
		}
	}
}

// BenchmarkTryGet benchmarks point lookups.
func BenchmarkTryGet(b *testing.B) {
	tree := benchTree()

	b.ResetTimer()

	for i := range b.N {
		tree.TryGet(i % benchKeyCount)
	}
}

// BenchmarkRank benchmarks rank queries.
func BenchmarkRank(b *testing.B) {
	tree := benchTree()

	b.ResetTimer()

	for i := range b.N {
		tree.Rank(i % benchKeyCount)
	}
}

// BenchmarkRange benchmarks a range scan over half the keys.
func BenchmarkRange(b *testing.B) {
	tree := benchTree()

	b.ResetTimer()

	for range b.N {
		for range tree.Range(benchRangeLo, benchRangeHi) {
		}
	}
}
