// Package tables selects a search tree implementation by name.
package tables

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/bst"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/llrb"
)

// Implementation names accepted by New.
const (
	BST  = "bst"
	LLRB = "llrb"
)

// ErrUnknownImpl is returned for an unrecognized implementation name.
var ErrUnknownImpl = errors.New("unknown table implementation")

// Tree is an int-keyed ordered table that can report its height and verify
// its own invariants.
type Tree[V any] interface {
	symtab.Ordered[int, V]
	Height() int
	Check() error
}

// Names lists every implementation in a stable order.
func Names() []string {
	return []string{BST, LLRB}
}

// New returns an empty tree of the named implementation.
func New[V any](impl string) (Tree[V], error) {
	switch impl {
	case BST:
		return bst.New[int, V](), nil
	case LLRB:
		return llrb.New[int, V](), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownImpl, impl)
	}
}
