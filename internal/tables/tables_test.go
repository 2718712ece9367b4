package tables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/bst"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/llrb"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tree, err := tables.New[string](tables.BST)
	require.NoError(t, err)
	assert.IsType(t, &bst.Tree[int, string]{}, tree)

	tree, err = tables.New[string](tables.LLRB)
	require.NoError(t, err)
	assert.IsType(t, &llrb.Tree[int, string]{}, tree)

	_, err = tables.New[string]("avl")
	require.ErrorIs(t, err, tables.ErrUnknownImpl)
}

func TestNames_AreConstructible(t *testing.T) {
	t.Parallel()

	for _, name := range tables.Names() {
		tree, err := tables.New[int](name)
		require.NoError(t, err, name)

		tree.Add(1, 1)
		assert.Equal(t, 0, tree.Height(), name)
		require.NoError(t, tree.Check(), name)
	}
}
