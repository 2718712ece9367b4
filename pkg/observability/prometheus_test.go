package observability_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/symtab/pkg/observability"
)

func TestNewPrometheusMeter_GathersTableMetrics(t *testing.T) {
	t.Parallel()

	registry, mp, err := observability.NewPrometheusMeter()
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	tm, err := observability.NewTableMetrics(mp.Meter("test"))
	require.NoError(t, err)

	tm.RecordOp(context.Background(), "bst", observability.OpGet, time.Microsecond)

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool

	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), "symtab_operations") || family.GetMetric()[0].GetCounter() == nil {
			continue
		}

		found = true

		assert.InDelta(t, 1.0, family.GetMetric()[0].GetCounter().GetValue(), 0)
	}

	assert.True(t, found, "symtab_operations counter not gathered")
}

func TestNewPrometheusMeter_IndependentRegistries(t *testing.T) {
	t.Parallel()

	first, mp1, err := observability.NewPrometheusMeter()
	require.NoError(t, err)

	second, mp2, err := observability.NewPrometheusMeter()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mp1.Shutdown(context.Background()))
		require.NoError(t, mp2.Shutdown(context.Background()))
	})

	assert.NotSame(t, first, second)
}
