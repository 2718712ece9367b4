// Package interval provides an augmented interval tree for overlap queries
// over closed float64 intervals.
//
// The tree is a left-leaning red-black tree keyed by interval start. Each
// node also stores the maximum end point in its subtree (maxEnd), which lets
// queries skip subtrees that end before the query starts. Insert and delete
// are O(log N); FindIntersection is O(log N) and FindIntersections is
// O(log N + k) for k reported intervals in the typical case.
//
// Starts are unique: adding an interval whose start is already present
// overwrites the stored end. Intervals sharing a start are not tracked
// separately. Starts are ordered by cmp.Compare, so a NaN start is a key of
// its own that sorts before every other start.
package interval

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/symtab/internal/walk"
)

// Interval is the closed range [Start, End]. Start should not exceed End.
type Interval struct {
	Start float64
	End   float64
}

// Overlaps reports whether the interval intersects the closed range [a, b].
func (iv Interval) Overlaps(a, b float64) bool {
	return !(iv.End < a || b < iv.Start)
}

// Tree is an augmented interval tree. The zero value is an empty tree ready
// to use.
type Tree struct {
	root *node
}

// node is a red-black tree node augmented with subtree size and maxEnd.
type node struct {
	interval    Interval
	maxEnd      float64
	left, right *node
	size        int
	color       color
}

// color is the color of the link from a node's parent.
type color bool

// Red-black tree color constants.
const (
	red   color = false
	black color = true
)

// New creates an empty interval tree.
func New() *Tree {
	return &Tree{}
}

// Len returns the number of intervals in the tree.
func (t *Tree) Len() int {
	return size(t.root)
}

// IsEmpty reports whether the tree holds no intervals.
func (t *Tree) IsEmpty() bool {
	return t.root == nil
}

// Clear removes all intervals from the tree.
func (t *Tree) Clear() {
	t.root = nil
}

// Add inserts iv keyed by its start. An existing interval with the same
// start has its end replaced.
func (t *Tree) Add(iv Interval) {
	t.root = t.add(t.root, iv)
	t.root.color = black
}

func (t *Tree) add(h *node, iv Interval) *node {
	if h == nil {
		c := red
		if t.root == nil {
			c = black
		}

		return &node{interval: iv, maxEnd: iv.End, size: 1, color: c}
	}

	switch c := cmp.Compare(iv.Start, h.interval.Start); {
	case c < 0:
		h.left = t.add(h.left, iv)
	case c > 0:
		h.right = t.add(h.right, iv)
	default:
		h.interval.End = iv.End
	}

	return fixUp(h)
}

// Get returns the interval starting at start.
func (t *Tree) Get(start float64) (Interval, bool) {
	if x := t.find(start); x != nil {
		return x.interval, true
	}

	return Interval{}, false
}

func (t *Tree) find(start float64) *node {
	x := t.root

	for x != nil {
		switch c := cmp.Compare(start, x.interval.Start); {
		case c < 0:
			x = x.left
		case c > 0:
			x = x.right
		default:
			return x
		}
	}

	return nil
}

// Delete removes the interval starting at start.
// Returns true if the interval was found and removed, false otherwise.
func (t *Tree) Delete(start float64) bool {
	if t.find(start) == nil {
		return false
	}

	if !isRed(t.root.left) && !isRed(t.root.right) {
		t.root.color = red
	}

	t.root = deleteStart(t.root, start)
	if t.root != nil {
		t.root.color = black
	}

	return true
}

// deleteStart removes the interval starting at start, which must be present
// in the subtree rooted at h.
func deleteStart(h *node, start float64) *node {
	if cmp.Compare(start, h.interval.Start) < 0 {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}

		h.left = deleteStart(h.left, start)

		return fixUp(h)
	}

	if isRed(h.left) {
		h = rotateRight(h)
	}

	if cmp.Compare(start, h.interval.Start) == 0 && h.right == nil {
		return nil
	}

	if !isRed(h.right) && !isRed(h.right.left) {
		h = moveRedRight(h)
	}

	if cmp.Compare(start, h.interval.Start) == 0 {
		// Splice the successor node into h's place.
		successor := h.right
		for successor.left != nil {
			successor = successor.left
		}

		successor.right = deleteMin(h.right)
		successor.left = h.left
		successor.color = h.color
		h = successor
	} else {
		h.right = deleteStart(h.right, start)
	}

	return fixUp(h)
}

func deleteMin(h *node) *node {
	if h.left == nil {
		return nil
	}

	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}

	h.left = deleteMin(h.left)

	return fixUp(h)
}

// All returns every interval in ascending order of start.
func (t *Tree) All() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		for x := range walk.Ascend(t.root, links, nil, nil) {
			if !yield(x.interval) {
				return
			}
		}
	}
}

var links = walk.Children[*node]{
	Left:  func(x *node) *node { return x.left },
	Right: func(x *node) *node { return x.right },
}

// FindIntersection returns some interval overlapping [a, b].
//
// The search follows a single root-to-leaf path: when the current interval
// does not overlap, it goes left if the left subtree reaches a, and right
// otherwise. Which overlapping interval is returned when several exist is
// unspecified.
func (t *Tree) FindIntersection(a, b float64) (Interval, bool) {
	x := t.root

	for x != nil {
		if x.interval.Overlaps(a, b) {
			return x.interval, true
		}

		if x.left != nil && x.left.maxEnd >= a {
			x = x.left
		} else {
			x = x.right
		}
	}

	return Interval{}, false
}

// FindIntersections returns every interval overlapping [a, b] in ascending
// order of start.
//
// A left subtree is searched only when its maxEnd is strictly greater than
// a, so an interval in a pruned left subtree that merely touches a with its
// end point is not reported. Right subtrees are always searched.
func (t *Tree) FindIntersections(a, b float64) []Interval {
	return collect(t.root, a, b, nil)
}

func collect(x *node, a, b float64, out []Interval) []Interval {
	for x != nil {
		if x.left != nil && x.left.maxEnd > a {
			out = collect(x.left, a, b, out)
		}

		if x.interval.Overlaps(a, b) {
			out = append(out, x.interval)
		}

		x = x.right
	}

	return out
}

// Stab returns the intervals containing point, following the same pruning
// rule as FindIntersections.
func (t *Tree) Stab(point float64) []Interval {
	return t.FindIntersections(point, point)
}
