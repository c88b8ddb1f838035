package fleet

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/motofleet/core/model"
)

// RateImputer resolves the weekly rate of an asset, falling back to the mean
// positive rate of its model when the asset has none.
type RateImputer struct {
	norm  ModelNormalizer
	means map[string]float64
}

// NewRateImputer computes per-model means over the given canonical assets.
// The snapshots are only read.
func NewRateImputer(canonical []model.AssetSnapshot, norm ModelNormalizer) *RateImputer {
	if norm == nil {
		norm = NewAliasNormalizer(nil)
	}
	rates := map[string][]float64{}
	for _, s := range canonical {
		if !s.HasRate() {
			continue
		}
		k := rateKey(norm, s.Model)
		rates[k] = append(rates[k], *s.WeeklyRate)
	}
	means := make(map[string]float64, len(rates))
	for k, xs := range rates {
		means[k] = stat.Mean(xs, nil)
	}
	return &RateImputer{norm: norm, means: means}
}

// EffectiveRate returns the asset's own positive rate, the model mean, or 0.
func (r *RateImputer) EffectiveRate(s model.AssetSnapshot) float64 {
	if s.HasRate() {
		return *s.WeeklyRate
	}
	return r.means[rateKey(r.norm, s.Model)]
}

// Imputed reports whether EffectiveRate used the model mean.
func (r *RateImputer) Imputed(s model.AssetSnapshot) bool {
	if s.HasRate() {
		return false
	}
	_, ok := r.means[rateKey(r.norm, s.Model)]
	return ok
}

// ModelMean returns the mean positive rate of a model, if any asset has one.
func (r *RateImputer) ModelMean(name string) (float64, bool) {
	m, ok := r.means[rateKey(r.norm, name)]
	return m, ok
}
