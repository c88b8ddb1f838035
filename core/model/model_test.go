package model

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	cases := map[string]AssetState{
		"rented":                 StateRented,
		"Alugada":                StateRented,
		" relocada ":             StateRelocated,
		"Manutenção":             StateMaintenance,
		"DISPONÍVEL":             StateAvailable,
		"bloqueada rastreador":   StateTrackerBlocked,
		"bloqueada-documentacao": StateRegistrationBlocked,
		"furto":                  StateTheft,
		"whatever":               StateUnknown,
		"":                       StateUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseState(in), in)
	}
	assert.True(t, StateRented.IsRenting())
	assert.True(t, StateRelocated.IsRenting())
	assert.False(t, StateMaintenance.IsRenting())
}

func TestAssetStateText(t *testing.T) {
	b, err := StateTrackerBlocked.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "tracker_blocked", string(b))
	var s AssetState
	require.NoError(t, s.UnmarshalText([]byte("inadimplente")))
	assert.Equal(t, StateDelinquent, s)
	assert.Equal(t, "unknown", AssetState(99).String())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-02-01", "01/02/2024", "2024-02-01T00:00:00Z", "2024-02-01 00:00:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}
	_, err := ParseDate("yesterday")
	assert.True(t, errors.Is(err, ErrMalformedDate))
	_, err = ParseDate("  ")
	assert.True(t, errors.Is(err, ErrMalformedDate))
}

func TestParseDateIn(t *testing.T) {
	bahia, err := time.LoadLocation("America/Bahia")
	require.NoError(t, err)

	got, err := ParseDateIn("2024-02-01 22:30:00", bahia)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 2, 1, 30, 0, 0, time.UTC), got)

	got, err = ParseDateIn("2024-02-01T22:30:00Z", bahia)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 22, 30, 0, 0, time.UTC), got)

	SetLocation(bahia)
	t.Cleanup(func() { SetLocation(nil) })
	assert.Equal(t, bahia, Location())
	got, err = ParseDate("01/02/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC), got)

	SetLocation(nil)
	assert.Equal(t, time.UTC, Location())
}

func TestDaysBetweenIn(t *testing.T) {
	bahia, err := time.LoadLocation("America/Bahia")
	require.NoError(t, err)
	start := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC) // Dec 31 local
	end := time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC)   // Jan 1 local
	assert.Equal(t, 0, DaysBetween(start, end))
	assert.Equal(t, 1, DaysBetweenIn(start, end, bahia))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, bahia), DayIn(start, bahia))

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	// The 23-hour DST day still counts as one.
	a := time.Date(2024, 3, 31, 0, 0, 0, 0, paris)
	b := time.Date(2024, 4, 1, 0, 0, 0, 0, paris)
	assert.Equal(t, 1, DaysBetweenIn(a, b, paris))
}

func TestParseMoney(t *testing.T) {
	cases := map[string]float64{
		"150":         150,
		"150.50":      150.5,
		"150,5":       150.5,
		"R$ 1.234,56": 1234.56,
		"1,234.56":    1234.56,
		"1.234":       1234,
		"$ 99":        99,
	}
	for in, want := range cases {
		got, err := ParseMoney(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, err := ParseMoney("abc")
	assert.True(t, errors.Is(err, ErrMalformedAmount))
	_, err = ParseMoney("")
	assert.True(t, errors.Is(err, ErrMalformedAmount))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(start, end))
	assert.Equal(t, -2, DaysBetween(end, start))
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.235))
}

func TestRawAssetSnapshot(t *testing.T) {
	raw := RawAsset{
		Plate:          " abc-1234 ",
		Status:         "alugada",
		Model:          " Honda CG 160 ",
		Franchisee:     "Acme",
		LastMovementAt: "2024-01-10",
		WeeklyRate:     "R$ 250,00",
		IdleDays:       "3",
		CountingPaused: "sim",
	}
	snap, issues, err := raw.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, "ABC1234", snap.Plate)
	assert.Equal(t, StateRented, snap.State)
	assert.Equal(t, "Honda CG 160", snap.Model)
	require.NotNil(t, snap.WeeklyRate)
	assert.Equal(t, 250.0, *snap.WeeklyRate)
	assert.True(t, snap.HasRate())
	assert.Equal(t, 3, snap.IdleDays)
	assert.True(t, snap.CountingPaused)
	require.NotNil(t, snap.LastMovementAt)
	assert.Nil(t, snap.CreatedAt)
}

func TestRawAssetSnapshotMalformed(t *testing.T) {
	_, _, err := RawAsset{Status: "alugada"}.Snapshot()
	assert.ErrorIs(t, err, ErrMissingPlate)

	snap, issues, err := RawAsset{Plate: "XYZ999", LastMovementAt: "31/31/2024", WeeklyRate: "n/a"}.Snapshot()
	require.NoError(t, err)
	assert.Len(t, issues, 2)
	assert.Nil(t, snap.LastMovementAt)
	assert.Nil(t, snap.WeeklyRate)
	assert.False(t, snap.HasRate())
	assert.Equal(t, StateUnknown, snap.State)
}

func TestRawMaintenanceRecord(t *testing.T) {
	rec, issues, err := RawMaintenance{Plate: "abc1234", Date: "2024-03-05", PartsRevenue: "100", PartsCost: "x", NetAmount: "40,50"}.Record()
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, "ABC1234", rec.Plate)
	assert.Equal(t, 100.0, rec.PartsRevenue)
	assert.Equal(t, 0.0, rec.PartsCost)
	assert.Equal(t, 40.5, rec.NetAmount)

	_, _, err = RawMaintenance{Plate: "abc1234", Date: "soon"}.Record()
	assert.ErrorIs(t, err, ErrMalformedDate)
	_, _, err = RawMaintenance{Date: "2024-03-05"}.Record()
	assert.ErrorIs(t, err, ErrMissingPlate)
}

func TestRawAssetFromMap(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	raw := RawAssetFromMap(map[string]any{
		"placa":                    "XYZ999",
		"status":                   "rented",
		"data_ultima_movimentacao": ts,
		"valor_semanal":            float64(200),
		"dias_parada":              int64(4),
		"contagem_pausada":         true,
	})
	snap, issues, err := raw.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 200.0, *snap.WeeklyRate)
	assert.Equal(t, 4, snap.IdleDays)
	assert.True(t, snap.CountingPaused)
	assert.True(t, ts.Equal(*snap.LastMovementAt))

	m := RawMaintenanceFromMap(map[string]any{"placa": "XYZ999", "data": "2025-01-02", "valor_liquido": 12.5})
	rec, _, err := m.Record()
	require.NoError(t, err)
	assert.Equal(t, 12.5, rec.NetAmount)
}
