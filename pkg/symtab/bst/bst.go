// Package bst provides an unbalanced binary search tree implementing
// [symtab.Ordered]. Every operation costs O(h) where h is the tree height;
// keys inserted in sorted order degrade the tree into a list.
//
// Deletion uses Hibbard's method: a node with two children is replaced by
// the minimum of its right subtree.
package bst

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/symtab/internal/walk"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

// Tree is an unbalanced binary search tree. The zero value is not usable;
// create trees with New, NewFunc or FromMap.
type Tree[K, V any] struct {
	root    *node[K, V]
	compare symtab.CompareFunc[K]
}

type node[K, V any] struct {
	key         K
	val         V
	left, right *node[K, V]
	size        int
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

func size[K, V any](x *node[K, V]) int {
	if x == nil {
		return 0
	}

	return x.size
}

func (x *node[K, V]) resize() {
	x.size = 1 + size(x.left) + size(x.right)
}

// Add inserts key with val, overwriting the value of an existing key.
func (t *Tree[K, V]) Add(key K, val V) {
	t.root = t.add(t.root, key, val)
}

func (t *Tree[K, V]) add(x *node[K, V], key K, val V) *node[K, V] {
	if x == nil {
		return &node[K, V]{key: key, val: val, size: 1}
	}

	switch c := t.compare(key, x.key); {
	case c < 0:
		x.left = t.add(x.left, key, val)
	case c > 0:
		x.right = t.add(x.right, key, val)
	default:
		x.val = val
	}

	x.resize()

	return x
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
	_, ok := t.TryGet(key)

	return ok
}

// TryDelete removes key and reports whether it was present.
func (t *Tree[K, V]) TryDelete(key K) bool {
	var deleted bool

	t.root, deleted = t.delete(t.root, key)

	return deleted
}

func (t *Tree[K, V]) delete(x *node[K, V], key K) (*node[K, V], bool) {
	if x == nil {
		return nil, false
	}

	var deleted bool

	switch c := t.compare(key, x.key); {
	case c < 0:
		x.left, deleted = t.delete(x.left, key)
	case c > 0:
		x.right, deleted = t.delete(x.right, key)
	default:
		if x.left == nil {
			return x.right, true
		}

		if x.right == nil {
			return x.left, true
		}

		// Splice the successor into x's place.
		successor := minNode(x.right)
		successor.right = deleteMin(x.right)
		successor.left = x.left
		x, deleted = successor, true
	}

	x.resize()

	return x, deleted
}

func deleteMin[K, V any](x *node[K, V]) *node[K, V] {
	if x.left == nil {
		return x.right
	}

	x.left = deleteMin(x.left)
	x.resize()

	return x
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

	return maxNode(t.root).key, true
}

func minNode[K, V any](x *node[K, V]) *node[K, V] {
	for x.left != nil {
		x = x.left
	}

	return x
}

func maxNode[K, V any](x *node[K, V]) *node[K, V] {
	for x.right != nil {
		x = x.right
	}

	return x
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

// Height returns the number of links on the longest root-to-leaf path.
// An empty tree has height -1 and a single node height 0.
func (t *Tree[K, V]) Height() int {
	type level struct {
		x     *node[K, V]
		depth int
	}

	height := -1

	if t.root == nil {
		return height
	}

	stack := []level{{t.root, 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		height = max(height, top.depth)

		if top.x.left != nil {
			stack = append(stack, level{top.x.left, top.depth + 1})
		}

		if top.x.right != nil {
			stack = append(stack, level{top.x.right, top.depth + 1})
		}
	}

	return height
}

// Check verifies that keys ascend strictly in order and that every node
// carries the size of its subtree.
func (t *Tree[K, V]) Check() error {
	var prev *node[K, V]

	for x := range t.ascend(nil, nil) {
		if prev != nil && t.compare(prev.key, x.key) >= 0 {
			return fmt.Errorf("%w: %v before %v", symtab.ErrOrder, prev.key, x.key)
		}

		if want := 1 + size(x.left) + size(x.right); x.size != want {
			return fmt.Errorf("%w: node %v has %d, want %d", symtab.ErrSize, x.key, x.size, want)
		}

		prev = x
	}

	return nil
}
