package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/model"
)

func TestFetch(t *testing.T) {
	repo := NewMemoryRepository(
		[]model.AssetSnapshot{{Plate: "ABC1234"}},
		[]model.MaintenanceRecord{{Plate: "ABC1234"}},
	)
	c, err := Fetch(context.Background(), repo)
	require.NoError(t, err)
	assert.Len(t, c.Assets, 1)
	assert.Len(t, c.Maintenance, 1)
	assert.False(t, c.FetchedAt.IsZero())

	repo.FailWith(errors.New("down"))
	_, err = Fetch(context.Background(), repo)
	assert.ErrorContains(t, err, "fetch assets")
}

func TestDecodeAssets(t *testing.T) {
	rows := []model.RawAsset{
		{Plate: "abc-1234", Status: "alugada", WeeklyRate: "R$ 150,00"},
		{Plate: "", Status: "alugada"},
		{Plate: "XYZ9999", Status: "disponivel", LastMovementAt: "not a date"},
	}
	out := DecodeAssets(rows, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "ABC1234", out[0].Plate)
	assert.Equal(t, model.StateRented, out[0].State)
	assert.Nil(t, out[1].LastMovementAt)
}

func TestDecodeMaintenance(t *testing.T) {
	rows := []model.RawMaintenance{
		{Plate: "ABC1234", Date: "2024-03-01", NetAmount: "80"},
		{Plate: "ABC1234", Date: "soon"},
	}
	out := DecodeMaintenance(rows, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 80.0, out[0].NetAmount)
}

func TestPoller_InitialAndTrigger(t *testing.T) {
	repo := NewMemoryRepository([]model.AssetSnapshot{{Plate: "A"}}, nil)
	p := NewPoller(repo, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	require.NoError(t, err)

	first := <-ch
	assert.Len(t, first.Assets, 1)

	repo.Replace([]model.AssetSnapshot{{Plate: "A"}, {Plate: "B"}}, nil)
	p.Trigger()
	select {
	case second := <-ch:
		assert.Len(t, second.Assets, 2)
	case <-time.After(time.Second):
		t.Fatal("no collection after trigger")
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestPoller_SkipsFailedFetch(t *testing.T) {
	repo := NewMemoryRepository(nil, nil)
	repo.FailWith(errors.New("down"))
	p := NewPoller(repo, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := p.Watch(ctx)
	require.NoError(t, err)

	repo.FailWith(nil)
	repo.Replace([]model.AssetSnapshot{{Plate: "A"}}, nil)
	p.Trigger()
	deadline := time.After(time.Second)
	for {
		select {
		case c := <-ch:
			if len(c.Assets) == 1 {
				return
			}
		case <-deadline:
			t.Fatal("expected a collection once the repository recovers")
		}
	}
}
