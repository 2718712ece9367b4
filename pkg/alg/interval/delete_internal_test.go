package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesByStart(t *Tree) map[float64]*node {
	nodes := make(map[float64]*node)

	for x := range walkNodes(t) {
		nodes[x.interval.Start] = x
	}

	return nodes
}

func walkNodes(t *Tree) map[*node]struct{} {
	seen := make(map[*node]struct{})

	var visit func(*node)
	visit = func(x *node) {
		if x == nil {
			return
		}

		seen[x] = struct{}{}
		visit(x.left)
		visit(x.right)
	}

	visit(t.root)

	return seen
}

func TestDelete_StartsStayInTheirNodes(t *testing.T) {
	t.Parallel()

	tree := New()
	for i := range 31 {
		tree.Add(Interval{Start: float64(i), End: float64(i + 3)})
	}

	before := nodesByStart(tree)

	for _, start := range []float64{tree.root.interval.Start, 7, 23, 3, 27} {
		require.True(t, tree.Delete(start), "Delete(%v)", start)
		require.NoError(t, tree.Check())

		for s, x := range nodesByStart(tree) {
			assert.Same(t, before[s], x, "start %v moved to another node", s)
		}
	}
}
