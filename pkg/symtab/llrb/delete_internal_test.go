package llrb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodesByKey maps every key to the node holding it.
func nodesByKey(t *Tree[int, string]) map[int]*node[int, string] {
	nodes := make(map[int]*node[int, string])

	for x := range t.ascend(nil, nil) {
		nodes[x.key] = x
	}

	return nodes
}

func TestTryDelete_KeysStayInTheirNodes(t *testing.T) {
	t.Parallel()

	tree := New[int, string]()
	for k := range 31 {
		tree.Add(k, "v")
	}

	before := nodesByKey(tree)

	// Inner keys have two children, so their successor takes their place.
	for _, k := range []int{tree.root.key, 7, 23, 3, 27} {
		require.True(t, tree.TryDelete(k), "TryDelete(%d)", k)
		require.NoError(t, tree.Check())

		for key, x := range nodesByKey(tree) {
			assert.Same(t, before[key], x, "key %d moved to another node", key)
		}
	}
}
