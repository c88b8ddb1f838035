package backfill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/history"
	"github.com/kilianp07/motofleet/core/model"
	"github.com/kilianp07/motofleet/core/store"
)

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBackfill(t *testing.T) {
	e := fleet.NewEngine(fleet.DefaultConfig(), fleet.WithClock(func() time.Time {
		return time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	}))
	rate := 200.0
	c := store.Collection{Assets: []model.AssetSnapshot{
		{Plate: "AAA1111", State: model.StateRented, Franchisee: "Acme", LastMovementAt: at(2024, 2, 10), WeeklyRate: &rate},
		{Plate: "BBB2222", State: model.StateAvailable, Franchisee: "Acme", LastMovementAt: at(2023, 11, 3)},
	}}
	hist := history.NewMemoryStore()

	res, err := Backfill(context.Background(), e, hist, c, 2024, "backfill-1")
	require.NoError(t, err)
	assert.Equal(t, Result{Saved: 3, Skipped: 1}, res)

	_, ok, err := hist.Get(context.Background(), fleet.Month(2024, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	rec, ok, err := hist.Get(context.Background(), fleet.Month(2024, 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "backfill-1", rec.RunID)
	assert.Equal(t, 1, rec.KPI.RentedAssets)
	assert.Equal(t, 200.0, rec.KPI.WeeklyRevenue)

	prev, err := history.Previous(context.Background(), hist, fleet.Month(2024, 4))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, fleet.Month(2024, 3), prev.Period)
}

func TestYears(t *testing.T) {
	c := store.Collection{Assets: []model.AssetSnapshot{
		{Plate: "A", LastMovementAt: at(2024, 1, 1)},
		{Plate: "B", LastMovementAt: at(2022, 5, 1)},
		{Plate: "C"},
		{Plate: "D", LastMovementAt: at(2024, 7, 1)},
	}}
	assert.Equal(t, []int{2022, 2024}, Years(c))
}
