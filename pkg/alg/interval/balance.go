package interval

import (
	"cmp"
	"errors"
	"fmt"
)

// Invariant violations reported by Check.
var (
	ErrRedRoot      = errors.New("interval: root is red")
	ErrRightRed     = errors.New("interval: right-leaning red link")
	ErrDoubleRed    = errors.New("interval: two consecutive red links")
	ErrBlackBalance = errors.New("interval: unequal black height")
	ErrOrder        = errors.New("interval: starts out of order")
	ErrSize         = errors.New("interval: subtree size mismatch")
	ErrMaxEnd       = errors.New("interval: stale subtree max end")
)

func isRed(x *node) bool {
	return x != nil && x.color == red
}

func size(x *node) int {
	if x == nil {
		return 0
	}

	return x.size
}

// update recomputes the augmentation of x from its interval and children.
func update(x *node) {
	x.size = 1 + size(x.left) + size(x.right)
	x.maxEnd = x.interval.End

	if x.left != nil && x.left.maxEnd > x.maxEnd {
		x.maxEnd = x.left.maxEnd
	}

	if x.right != nil && x.right.maxEnd > x.maxEnd {
		x.maxEnd = x.right.maxEnd
	}
}

// rotateLeft lifts the red right child of h. Maintains size and maxEnd.
func rotateLeft(h *node) *node {
	x := h.right
	if !isRed(x) {
		panic("corrupt interval tree: rotateLeft without a red right link")
	}

	h.right = x.left
	x.left = h
	x.color = h.color
	h.color = red

	// Recalculate bottom-up: h first, then x.
	update(h)
	update(x)

	return x
}

// rotateRight lifts the red left child of h. Maintains size and maxEnd.
func rotateRight(h *node) *node {
	x := h.left
	if !isRed(x) {
		panic("corrupt interval tree: rotateRight without a red left link")
	}

	h.left = x.right
	x.right = h
	x.color = h.color
	h.color = red

	update(h)
	update(x)

	return x
}

// flipColors toggles h and both children.
func flipColors(h *node) {
	if h.left == nil || h.right == nil {
		panic("corrupt interval tree: flipColors needs two children")
	}

	h.color = !h.color
	h.left.color = !h.left.color
	h.right.color = !h.right.color
}

func moveRedLeft(h *node) *node {
	flipColors(h)

	if isRed(h.right.left) {
		h.right = rotateRight(h.right)
		h = rotateLeft(h)
		flipColors(h)
	}

	return h
}

func moveRedRight(h *node) *node {
	flipColors(h)

	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}

	return h
}

// fixUp restores the left-leaning invariants at h and refreshes its
// augmentation.
func fixUp(h *node) *node {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(h)
	}

	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(h)
	}

	if isRed(h.left) && isRed(h.right) {
		flipColors(h)
	}

	update(h)

	return h
}

// Height returns the number of links on the longest root-to-leaf path.
// An empty tree has height -1.
func (t *Tree) Height() int {
	return height(t.root)
}

func height(x *node) int {
	if x == nil {
		return -1
	}

	return 1 + max(height(x.left), height(x.right))
}

// Check verifies the red-black invariants, start order, subtree sizes and
// maxEnd augmentation.
func (t *Tree) Check() error {
	if isRed(t.root) {
		return ErrRedRoot
	}

	first := true
	prev := 0.0

	for iv := range t.All() {
		if !first && cmp.Compare(prev, iv.Start) >= 0 {
			return fmt.Errorf("%w: %v before %v", ErrOrder, prev, iv.Start)
		}

		first, prev = false, iv.Start
	}

	_, err := check(t.root)

	return err
}

// check returns the black height of the subtree rooted at x.
func check(x *node) (int, error) {
	if x == nil {
		return 0, nil
	}

	if want := 1 + size(x.left) + size(x.right); x.size != want {
		return 0, fmt.Errorf("%w: node %v has %d, want %d", ErrSize, x.interval, x.size, want)
	}

	want := x.interval.End
	if x.left != nil {
		want = max(want, x.left.maxEnd)
	}

	if x.right != nil {
		want = max(want, x.right.maxEnd)
	}

	if x.maxEnd != want {
		return 0, fmt.Errorf("%w: node %v has %v, want %v", ErrMaxEnd, x.interval, x.maxEnd, want)
	}

	if isRed(x.right) {
		return 0, fmt.Errorf("%w: at node %v", ErrRightRed, x.interval)
	}

	if isRed(x) && isRed(x.left) {
		return 0, fmt.Errorf("%w: at node %v", ErrDoubleRed, x.interval)
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
		return 0, fmt.Errorf("%w: node %v has %d left, %d right", ErrBlackBalance, x.interval, left, right)
	}

	if !isRed(x) {
		left++
	}

	return left, nil
}
