package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/fleet"
)

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := fleet.Month(2024, 3)
	require.NoError(t, s.Save(ctx, Record{Period: p, KPI: fleet.FinancialKPI{MonthlyRevenue: 100}}))
	require.NoError(t, s.Save(ctx, Record{Period: p, KPI: fleet.FinancialKPI{MonthlyRevenue: 200}}))

	r, ok, err := s.Get(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 200.0, r.KPI.MonthlyRevenue)

	_, ok, err = s.Get(ctx, fleet.Month(2024, 4))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrevious(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, Record{Period: fleet.Month(2023, 12), KPI: fleet.FinancialKPI{MonthlyRevenue: 433}}))

	prev, err := Previous(ctx, s, fleet.Month(2024, 1))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 433.0, prev.MonthlyRevenue)

	prev, err = Previous(ctx, s, fleet.Month(2024, 2))
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = Previous(ctx, s, fleet.AllTime)
	require.NoError(t, err)
	assert.Nil(t, prev)
}
