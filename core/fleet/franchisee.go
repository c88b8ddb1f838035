package fleet

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/motofleet/core/model"
)

// FranchiseeRevenue is the revenue and occupancy of one franchisee.
// TotalRevenue mirrors MonthlyRevenue.
type FranchiseeRevenue struct {
	Franchisee             string  `json:"franchisee"`
	WeeklyRevenue          float64 `json:"weekly_revenue"`
	MonthlyRevenue         float64 `json:"monthly_revenue"`
	TotalRevenue           float64 `json:"total_revenue"`
	RentedCount            int     `json:"rented_count"`
	TotalAssets            int     `json:"total_assets"`
	OccupancyRate          float64 `json:"occupancy_rate"`
	AverageRevenuePerAsset float64 `json:"average_revenue_per_asset"`
	ImputedAssets          int     `json:"imputed_assets"`
}

type franchiseeAcc struct {
	rates   []float64
	total   int
	imputed int
}

// ComputeFranchiseeRevenue aggregates rented assets per franchisee over the
// effective fleet of the period. Franchisees without revenue are dropped; the
// result is ordered by weekly revenue descending, then by name.
func (e *Engine) ComputeFranchiseeRevenue(snapshots []model.AssetSnapshot, p Period) []FranchiseeRevenue {
	imp := NewRateImputer(CanonicalList(snapshots), e.norm)
	fleet := e.EffectiveFleet(snapshots, p)

	acc := map[string]*franchiseeAcc{}
	for _, s := range fleet {
		name := strings.TrimSpace(s.Franchisee)
		if name == "" {
			continue
		}
		a, ok := acc[name]
		if !ok {
			a = &franchiseeAcc{}
			acc[name] = a
		}
		a.total++
		if !s.State.IsRenting() {
			continue
		}
		a.rates = append(a.rates, imp.EffectiveRate(s))
		if imp.Imputed(s) {
			a.imputed++
		}
	}

	out := make([]FranchiseeRevenue, 0, len(acc))
	for name, a := range acc {
		weekly := floats.Sum(a.rates)
		if weekly <= 0 {
			continue
		}
		rented := len(a.rates)
		monthly := weekly * e.cfg.WeeksPerMonth
		out = append(out, FranchiseeRevenue{
			Franchisee:             name,
			WeeklyRevenue:          model.Round2(weekly),
			MonthlyRevenue:         model.Round2(monthly),
			TotalRevenue:           model.Round2(monthly),
			RentedCount:            rented,
			TotalAssets:            a.total,
			OccupancyRate:          model.Round2(float64(rented) / float64(a.total) * 100),
			AverageRevenuePerAsset: model.Round2(weekly / float64(rented)),
			ImputedAssets:          a.imputed,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeeklyRevenue != out[j].WeeklyRevenue {
			return out[i].WeeklyRevenue > out[j].WeeklyRevenue
		}
		return out[i].Franchisee < out[j].Franchisee
	})
	return out
}
