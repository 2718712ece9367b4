package walk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/symtab/internal/walk"
)

type node struct {
	key         int
	left, right *node
}

var links = walk.Children[*node]{
	Left:  func(n *node) *node { return n.left },
	Right: func(n *node) *node { return n.right },
}

// insert builds an unbalanced tree for the fixtures.
func insert(root *node, key int) *node {
	if root == nil {
		return &node{key: key}
	}

	if key < root.key {
		root.left = insert(root.left, key)
	} else {
		root.right = insert(root.right, key)
	}

	return root
}

func build(keys ...int) *node {
	var root *node

	for _, k := range keys {
		root = insert(root, k)
	}

	return root
}

func keysOf(root *node, fromLo, pastHi func(*node) bool) []int {
	var out []int

	for n := range walk.Ascend(root, links, fromLo, pastHi) {
		out = append(out, n.key)
	}

	return out
}

func TestAscend_FullTree(t *testing.T) {
	t.Parallel()

	root := build(5, 2, 8, 1, 3, 7, 9)

	assert.Equal(t, []int{1, 2, 3, 5, 7, 8, 9}, keysOf(root, nil, nil))
}

func TestAscend_EmptyTree(t *testing.T) {
	t.Parallel()

	assert.Empty(t, keysOf(nil, nil, nil))
}

func TestAscend_Bounded(t *testing.T) {
	t.Parallel()

	root := build(5, 2, 8, 1, 3, 7, 9)
	fromLo := func(n *node) bool { return n.key >= 3 }
	pastHi := func(n *node) bool { return n.key > 7 }

	assert.Equal(t, []int{3, 5, 7}, keysOf(root, fromLo, pastHi))
}

func TestAscend_SkewedTree(t *testing.T) {
	t.Parallel()

	const n = 10000

	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}

	var root *node

	// Build the right spine directly; insert would recurse n levels deep.
	for i := n - 1; i >= 0; i-- {
		root = &node{key: i, right: root}
	}

	assert.Equal(t, keys, keysOf(root, nil, nil))
}

func TestAscend_Restartable(t *testing.T) {
	t.Parallel()

	root := build(2, 1, 3)
	seq := walk.Ascend(root, links, nil, nil)

	for range 2 {
		var got []int

		for n := range seq {
			got = append(got, n.key)
		}

		assert.Equal(t, []int{1, 2, 3}, got)
	}
}

func TestAscend_EarlyBreak(t *testing.T) {
	t.Parallel()

	root := build(2, 1, 3)

	var got []int

	for n := range walk.Ascend(root, links, nil, nil) {
		got = append(got, n.key)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []int{1, 2}, got)
}
