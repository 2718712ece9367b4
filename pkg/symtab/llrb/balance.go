package llrb

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

// Invariant violations reported by Check.
var (
	ErrRedRoot      = errors.New("llrb: root is red")
	ErrRightRed     = errors.New("llrb: right-leaning red link")
	ErrDoubleRed    = errors.New("llrb: two consecutive red links")
	ErrBlackBalance = errors.New("llrb: unequal black height")
)

func isRed[K, V any](x *node[K, V]) bool {
	return x != nil && x.red
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

// rotateLeft turns (h a (x b c)) into (x (h a b) c), where the link to x is red.
func rotateLeft[K, V any](h *node[K, V]) *node[K, V] {
	x := h.right
	if !isRed(x) {
		panic("corrupt llrb: rotateLeft without a red right link")
	}

	h.right = x.left
	x.left = h
	x.red = h.red
	h.red = true
	x.size = h.size
	h.resize()

	return x
}

// rotateRight turns (h (x a b) c) into (x a (h b c)), where the link to x is red.
func rotateRight[K, V any](h *node[K, V]) *node[K, V] {
	x := h.left
	if !isRed(x) {
		panic("corrupt llrb: rotateRight without a red left link")
	}

	h.left = x.right
	x.right = h
	x.red = h.red
	h.red = true
	x.size = h.size
	h.resize()

	return x
}

// flipColors toggles h and both children. On insertion it splits a
// temporary 4-node by passing the red link up; on deletion it merges h with
// its children into a 4-node.
func flipColors[K, V any](h *node[K, V]) {
	if h.left == nil || h.right == nil {
		panic("corrupt llrb: flipColors needs two children")
	}

	h.red = !h.red
	h.left.red = !h.left.red
	h.right.red = !h.right.red
}

// moveRedLeft makes h.left or one of its children red, assuming h is red
// and both h.left and h.left.left are black.
func moveRedLeft[K, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)

	if isRed(h.right.left) {
		h.right = rotateRight(h.right)
		h = rotateLeft(h)
		flipColors(h)
	}

	return h
}

// moveRedRight makes h.right or one of its children red, assuming h is red
// and both h.right and h.right.left are black.
func moveRedRight[K, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)

	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}

	return h
}

// fixUp applies the three local rules in order and refreshes h's size.
func fixUp[K, V any](h *node[K, V]) *node[K, V] {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(h)
	}

	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(h)
	}

	if isRed(h.left) && isRed(h.right) {
		flipColors(h)
	}

	h.resize()

	return h
}

// Height returns the number of links on the longest root-to-leaf path.
// An empty tree has height -1.
func (t *Tree[K, V]) Height() int {
	return height(t.root)
}

func height[K, V any](x *node[K, V]) int {
	if x == nil {
		return -1
	}

	return 1 + max(height(x.left), height(x.right))
}

// BlackHeight returns the number of black nodes on every path from the root
// to an empty link.
func (t *Tree[K, V]) BlackHeight() int {
	n := 0

	for x := t.root; x != nil; x = x.left {
		if !x.red {
			n++
		}
	}

	return n
}

// Check verifies every red-black invariant, key order and subtree sizes.
// A tree built only through the public API always passes.
func (t *Tree[K, V]) Check() error {
	if isRed(t.root) {
		return ErrRedRoot
	}

	var prev *node[K, V]

	for x := range t.ascend(nil, nil) {
		if prev != nil && t.compare(prev.key, x.key) >= 0 {
			return fmt.Errorf("%w: %v before %v", symtab.ErrOrder, prev.key, x.key)
		}

		prev = x
	}

	_, err := check(t.root)

	return err
}

// check returns the black height of the subtree rooted at x.
func check[K, V any](x *node[K, V]) (int, error) {
	if x == nil {
		return 0, nil
	}

	if want := 1 + size(x.left) + size(x.right); x.size != want {
		return 0, fmt.Errorf("%w: node %v has %d, want %d", symtab.ErrSize, x.key, x.size, want)
	}

	if isRed(x.right) {
		return 0, fmt.Errorf("%w: at node %v", ErrRightRed, x.key)
	}

	if x.red && isRed(x.left) {
		return 0, fmt.Errorf("%w: at node %v", ErrDoubleRed, x.key)
	}

	left, err := check(x.left)
	if err != nil {
		return 0, err
	}

	right, err := check(x.right)
	if err != nil {
		return 0, err
	}

	if left != right {
		return 0, fmt.Errorf("%w: node %v has %d left, %d right", ErrBlackBalance, x.key, left, right)
	}

	if !x.red {
		left++
	}

	return left, nil
}
