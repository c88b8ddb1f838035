package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/fleet"
	corehistory "github.com/kilianp07/motofleet/core/history"
)

func TestSQLiteStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kpi.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, ok, err := s.Get(ctx, fleet.Month(2024, 2))
	require.NoError(t, err)
	assert.False(t, ok)

	updated := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	rec := corehistory.Record{
		Period:    fleet.Month(2024, 2),
		RunID:     "run-1",
		UpdatedAt: updated,
		KPI:       fleet.FinancialKPI{Period: fleet.Month(2024, 2), TotalAssets: 10, RentedAssets: 8, OccupancyRate: 80, MonthlyRevenue: 3000},
	}
	require.NoError(t, s.Save(ctx, rec))

	got, ok, err := s.Get(ctx, fleet.Month(2024, 2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, updated, got.UpdatedAt)
	assert.Equal(t, rec.KPI, got.KPI)

	rec.RunID = "run-2"
	rec.KPI.MonthlyRevenue = 3500
	require.NoError(t, s.Save(ctx, rec))
	got, _, err = s.Get(ctx, fleet.Month(2024, 2))
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, 3500.0, got.KPI.MonthlyRevenue)
}

func TestSQLiteStore_PreviousAndPeriods(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kpi.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Save(ctx, corehistory.Record{Period: fleet.Month(2024, 3), KPI: fleet.FinancialKPI{MonthlyRevenue: 10}}))
	require.NoError(t, s.Save(ctx, corehistory.Record{Period: fleet.Month(2023, 12), KPI: fleet.FinancialKPI{MonthlyRevenue: 5}}))
	require.NoError(t, s.Save(ctx, corehistory.Record{Period: fleet.Year(2023), KPI: fleet.FinancialKPI{MonthlyRevenue: 7}}))

	prev, err := corehistory.Previous(ctx, s, fleet.Month(2024, 1))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 5.0, prev.MonthlyRevenue)

	prev, err = corehistory.Previous(ctx, s, fleet.Year(2024))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 7.0, prev.MonthlyRevenue)

	periods, err := s.Periods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []fleet.Period{fleet.Year(2023), fleet.Month(2023, 12), fleet.Month(2024, 3)}, periods)
}

func TestNew(t *testing.T) {
	s, c, err := New(Config{})
	require.NoError(t, err)
	assert.IsType(t, &corehistory.MemoryStore{}, s)
	require.NoError(t, c.Close())

	s, c, err = New(Config{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "h.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, c.Close())

	_, _, err = New(Config{Backend: "mongo"})
	assert.Error(t, err)
}
