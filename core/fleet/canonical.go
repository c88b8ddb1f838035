package fleet

import (
	"sort"

	"github.com/kilianp07/motofleet/core/model"
)

// Canonicalize keeps one snapshot per plate: the one with the latest
// movement. A snapshot with a timestamp beats one without; between two
// snapshots without a timestamp the first encountered is kept. Snapshots with
// an empty plate are dropped.
func Canonicalize(snapshots []model.AssetSnapshot) map[string]model.AssetSnapshot {
	out := make(map[string]model.AssetSnapshot, len(snapshots))
	for _, s := range snapshots {
		if s.Plate == "" {
			continue
		}
		kept, ok := out[s.Plate]
		if !ok || newer(s, kept) {
			out[s.Plate] = s
		}
	}
	return out
}

// CanonicalList returns the canonical snapshots ordered by plate.
func CanonicalList(snapshots []model.AssetSnapshot) []model.AssetSnapshot {
	m := Canonicalize(snapshots)
	res := make([]model.AssetSnapshot, 0, len(m))
	for _, s := range m {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Plate < res[j].Plate })
	return res
}

func newer(candidate, kept model.AssetSnapshot) bool {
	if candidate.LastMovementAt == nil {
		return false
	}
	if kept.LastMovementAt == nil {
		return true
	}
	return candidate.LastMovementAt.After(*kept.LastMovementAt)
}
