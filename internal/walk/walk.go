// Package walk provides stack-based in-order traversal shared by the search
// trees. Traversal never recurses, so a degenerate tree of height n costs a
// slice of n pointers instead of n goroutine stack frames.
package walk

import "iter"

// Children exposes the links of a tree node. The zero N is the empty tree.
type Children[N comparable] struct {
	Left  func(N) N
	Right func(N) N
}

// Ascend yields the nodes of the tree rooted at root in ascending order,
// starting at the first node for which fromLo reports true and stopping at
// the first node for which pastHi reports true.
//
// fromLo must be monotone over the in-order sequence (false then true) and so
// must pastHi. A nil fromLo starts at the minimum; a nil pastHi runs to the
// maximum. The returned sequence is restartable: each range-over starts a
// fresh walk from root.
func Ascend[N comparable](root N, links Children[N], fromLo, pastHi func(N) bool) iter.Seq[N] {
	return func(yield func(N) bool) {
		var (
			zero  N
			stack []N
		)

		descend := func(x N) {
			for x != zero {
				if fromLo == nil || fromLo(x) {
					stack = append(stack, x)
					x = links.Left(x)
				} else {
					x = links.Right(x)
				}
			}
		}

		descend(root)

		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if pastHi != nil && pastHi(x) {
				return
			}

			if !yield(x) {
				return
			}

			descend(links.Right(x))
		}
	}
}
