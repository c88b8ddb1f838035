package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/model"
)

func TestCanonicalize_LatestMovementWins(t *testing.T) {
	out := Canonicalize([]model.AssetSnapshot{
		snap("A", model.StateRented, at(2024, 1, 1)),
		snap("A", model.StateAvailable, at(2024, 2, 1)),
		snap("A", model.StateMaintenance, at(2024, 1, 15)),
	})
	require.Len(t, out, 1)
	assert.Equal(t, model.StateAvailable, out["A"].State)
}

func TestCanonicalize_TimestampBeatsMissing(t *testing.T) {
	first := Canonicalize([]model.AssetSnapshot{
		snap("A", model.StateAvailable, nil),
		snap("A", model.StateRented, at(2024, 1, 1)),
	})
	assert.Equal(t, model.StateRented, first["A"].State)

	second := Canonicalize([]model.AssetSnapshot{
		snap("A", model.StateRented, at(2024, 1, 1)),
		snap("A", model.StateAvailable, nil),
	})
	assert.Equal(t, model.StateRented, second["A"].State)
}

func TestCanonicalize_FirstUntimestampedKept(t *testing.T) {
	a := snap("A", model.StateAvailable, nil)
	a.Model = "first"
	b := snap("A", model.StateRented, nil)
	b.Model = "second"
	out := Canonicalize([]model.AssetSnapshot{a, b})
	assert.Equal(t, "first", out["A"].Model)
}

func TestCanonicalize_EqualTimestampKeepsFirst(t *testing.T) {
	a := snap("A", model.StateAvailable, at(2024, 3, 1))
	b := snap("A", model.StateRented, at(2024, 3, 1))
	out := Canonicalize([]model.AssetSnapshot{a, b})
	assert.Equal(t, model.StateAvailable, out["A"].State)
}

func TestCanonicalize_DropsEmptyPlate(t *testing.T) {
	out := Canonicalize([]model.AssetSnapshot{
		snap("", model.StateRented, at(2024, 1, 1)),
		snap("B", model.StateRented, at(2024, 1, 1)),
	})
	assert.Len(t, out, 1)
	assert.Contains(t, out, "B")
}

func TestCanonicalList_Idempotent(t *testing.T) {
	in := []model.AssetSnapshot{
		snap("C", model.StateRented, at(2024, 1, 1)),
		snap("A", model.StateRented, at(2024, 1, 1)),
		snap("A", model.StateAvailable, at(2024, 5, 1)),
		snap("B", model.StateAvailable, nil),
	}
	once := CanonicalList(in)
	twice := CanonicalList(once)
	assert.Equal(t, once, twice)
	require.Len(t, once, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{once[0].Plate, once[1].Plate, once[2].Plate})
}

func TestAliasNormalizer(t *testing.T) {
	n := NewAliasNormalizer(map[string]string{"CG 160": "honda cg 160"})
	assert.Equal(t, "HONDA CG 160", n.Normalize("  cg   160 "))
	assert.Equal(t, "HONDA CG 160", n.Normalize("Honda CG 160"))
	assert.Equal(t, "FACTOR 150", n.Normalize("factor 150"))
	assert.Equal(t, UnknownModel, n.Normalize("   "))
}
