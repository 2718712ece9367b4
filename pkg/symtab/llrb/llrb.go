// Package llrb provides a left-leaning red-black search tree implementing
// [symtab.Ordered] with O(log n) height.
//
// A left-leaning red-black tree encodes a 2-3 tree: a red link glues a node
// to its parent as part of a 3-node. The tree maintains, after every public
// mutation:
//   - red links lean left;
//   - no node has two red links touching it;
//   - every path from the root to an empty link crosses the same number of
//     black links;
//   - the root is black.
//
// Insertion restores these bottom-up with three local rules applied in order
// on every level: rotate left a right-leaning red link, rotate right two
// consecutive left red links, and flip colors to split a temporary 4-node.
// Deletion is fully balanced: it pushes a red link down the search path
// (moveRedLeft, moveRedRight) so the removed node always sits in a 3-node or
// 4-node, then fixes the tree up with the same three rules on the way back.
//
// Every node also carries the size of its subtree, which answers Rank and
// RangeCount in O(log n).
package llrb

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/symtab/internal/walk"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

// Tree is a left-leaning red-black tree. The zero value is not usable;
// create trees with New, NewFunc or FromMap.
type Tree[K, V any] struct {
	root    *node[K, V]
	compare symtab.CompareFunc[K]
}

// node is a tree node. red describes the link from the parent to the node.
type node[K, V any] struct {
	key         K
	val         V
	left, right *node[K, V]
	size        int
	red         bool
}

var _ symtab.Ordered[int, int] = (*Tree[int, int])(nil)

// New creates an empty tree ordered by K's standard Go ordering.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K])
}

// NewFunc creates an empty tree ordered by compare.
func NewFunc[K, V any](compare symtab.CompareFunc[K]) *Tree[K, V] {
	return &Tree[K, V]{compare: compare}
}

// FromMap creates a tree holding every entry of m.
func FromMap[K cmp.Ordered, V any](m map[K]V) *Tree[K, V] {
	t := New[K, V]()

	for k, v := range m {
		t.Add(k, v)
	}

	return t
}

// Add inserts key with val, overwriting the value of an existing key.
func (t *Tree[K, V]) Add(key K, val V) {
	t.root = t.add(t.root, key, val)
	t.root.red = false
}

func (t *Tree[K, V]) add(h *node[K, V], key K, val V) *node[K, V] {
	if h == nil {
		// The first node of a tree is the root and starts black.
		return &node[K, V]{key: key, val: val, size: 1, red: t.root != nil}
	}

	switch c := t.compare(key, h.key); {
	case c < 0:
		h.left = t.add(h.left, key, val)
	case c > 0:
		h.right = t.add(h.right, key, val)
	default:
		h.val = val
	}

	return fixUp(h)
}

// TryGet returns the value stored under key.
func (t *Tree[K, V]) TryGet(key K) (V, bool) {
	if x := t.find(key); x != nil {
		return x.val, true
	}

	var zero V

	return zero, false
}

func (t *Tree[K, V]) find(key K) *node[K, V] {
	x := t.root

	for x != nil {
		c := t.compare(key, x.key)
		if c == 0 {
			return x
		}

		if c < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}

	return nil
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	return t.find(key) != nil
}

// TryDelete removes key and reports whether it was present.
// The tree stays balanced: deletion restores every red-black invariant.
func (t *Tree[K, V]) TryDelete(key K) bool {
	if !t.Contains(key) {
		return false
	}

	// Make the root part of a 3-node so the search can always borrow a red
	// link from it.
	if !isRed(t.root.left) && !isRed(t.root.right) {
		t.root.red = true
	}

	t.root = t.delete(t.root, key)
	if t.root != nil {
		t.root.red = false
	}

	return true
}

// delete removes key, which must be present in the subtree rooted at h.
// On entry h or h.left is red.
func (t *Tree[K, V]) delete(h *node[K, V], key K) *node[K, V] {
	if t.compare(key, h.key) < 0 {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}

		h.left = t.delete(h.left, key)

		return fixUp(h)
	}

	if isRed(h.left) {
		h = rotateRight(h)
	}

	if t.compare(key, h.key) == 0 && h.right == nil {
		return nil
	}

	if !isRed(h.right) && !isRed(h.right.left) {
		h = moveRedRight(h)
	}

	if t.compare(key, h.key) == 0 {
		// Splice the successor node into h's place; keys never move
		// between nodes.
		successor := minNode(h.right)
		successor.right = deleteMin(h.right)
		successor.left = h.left
		successor.red = h.red
		h = successor
	} else {
		h.right = t.delete(h.right, key)
	}

	return fixUp(h)
}

// DeleteMin removes the smallest key and reports whether the tree was
// non-empty.
func (t *Tree[K, V]) DeleteMin() bool {
	if t.root == nil {
		return false
	}

	if !isRed(t.root.left) && !isRed(t.root.right) {
		t.root.red = true
	}

	t.root = deleteMin(t.root)
	if t.root != nil {
		t.root.red = false
	}

	return true
}

func deleteMin[K, V any](h *node[K, V]) *node[K, V] {
	if h.left == nil {
		return nil
	}

	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}

	h.left = deleteMin(h.left)

	return fixUp(h)
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.root == nil
}

// Size returns the number of keys.
func (t *Tree[K, V]) Size() int {
	return size(t.root)
}

// Keys returns every key. The tree yields them in ascending order, but
// callers that need order should use OrderedKeys.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return t.OrderedKeys()
}

// Values returns every value, in ascending order of their keys.
func (t *Tree[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for x := range t.ascend(nil, nil) {
			if !yield(x.val) {
				return
			}
		}
	}
}

// OrderedKeys returns every key in ascending order.
func (t *Tree[K, V]) OrderedKeys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for x := range t.ascend(nil, nil) {
			if !yield(x.key) {
				return
			}
		}
	}
}

// TryGetMin returns the smallest key.
func (t *Tree[K, V]) TryGetMin() (K, bool) {
	if t.root == nil {
		var zero K

		return zero, false
	}

	return minNode(t.root).key, true
}

// TryGetMax returns the largest key.
func (t *Tree[K, V]) TryGetMax() (K, bool) {
	if t.root == nil {
		var zero K

		return zero, false
	}

	x := t.root
	for x.right != nil {
		x = x.right
	}

	return x.key, true
}

// TryGetFloor returns the largest key less than or equal to key.
func (t *Tree[K, V]) TryGetFloor(key K) (K, bool) {
	var best *node[K, V]

	for x := t.root; x != nil; {
		c := t.compare(key, x.key)
		if c == 0 {
			return x.key, true
		}

		if c < 0 {
			x = x.left
		} else {
			best, x = x, x.right
		}
	}

	if best == nil {
		var zero K

		return zero, false
	}

	return best.key, true
}

// TryGetCeiling returns the smallest key greater than or equal to key.
func (t *Tree[K, V]) TryGetCeiling(key K) (K, bool) {
	var best *node[K, V]

	for x := t.root; x != nil; {
		c := t.compare(key, x.key)
		if c == 0 {
			return x.key, true
		}

		if c > 0 {
			x = x.right
		} else {
			best, x = x, x.left
		}
	}

	if best == nil {
		var zero K

		return zero, false
	}

	return best.key, true
}

// Rank returns the number of keys strictly less than key.
func (t *Tree[K, V]) Rank(key K) int {
	rank := 0

	for x := t.root; x != nil; {
		c := t.compare(key, x.key)

		switch {
		case c < 0:
			x = x.left
		case c > 0:
			rank += 1 + size(x.left)
			x = x.right
		default:
			return rank + size(x.left)
		}
	}

	return rank
}

// Select returns the key of the given rank, the inverse of Rank.
func (t *Tree[K, V]) Select(rank int) (K, bool) {
	x := t.root

	for x != nil {
		left := size(x.left)

		switch {
		case rank < left:
			x = x.left
		case rank > left:
			rank -= left + 1
			x = x.right
		default:
			return x.key, true
		}
	}

	var zero K

	return zero, false
}

// RangeCount returns the number of keys in [lo, hi].
func (t *Tree[K, V]) RangeCount(lo, hi K) int {
	return symtab.RangeCount[K, V](t, t.compare, lo, hi)
}

// Range returns every pair with lo <= key <= hi in ascending key order.
func (t *Tree[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t.compare(lo, hi) > 0 {
			return
		}

		fromLo := func(x *node[K, V]) bool { return t.compare(lo, x.key) <= 0 }
		pastHi := func(x *node[K, V]) bool { return t.compare(x.key, hi) > 0 }

		for x := range t.ascend(fromLo, pastHi) {
			if !yield(x.key, x.val) {
				return
			}
		}
	}
}

func (t *Tree[K, V]) ascend(fromLo, pastHi func(*node[K, V]) bool) iter.Seq[*node[K, V]] {
	return walk.Ascend(t.root, walk.Children[*node[K, V]]{
		Left:  func(x *node[K, V]) *node[K, V] { return x.left },
		Right: func(x *node[K, V]) *node[K, V] { return x.right },
	}, fromLo, pastHi)
}

func minNode[K, V any](x *node[K, V]) *node[K, V] {
	for x.left != nil {
		x = x.left
	}

	return x
}
