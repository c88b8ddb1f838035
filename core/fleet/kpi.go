package fleet

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/motofleet/core/model"
)

// FinancialKPI holds fleet-wide revenue figures for one period.
type FinancialKPI struct {
	Period               Period   `json:"period"`
	TotalAssets          int      `json:"total_assets"`
	RentedAssets         int      `json:"rented_assets"`
	OccupancyRate        float64  `json:"occupancy_rate"`
	WeeklyRevenue        float64  `json:"weekly_revenue"`
	MonthlyRevenue       float64  `json:"monthly_revenue"`
	QuarterlyProjection  float64  `json:"quarterly_projection"`
	YearlyProjection     float64  `json:"yearly_projection"`
	AverageTicket        float64  `json:"average_ticket"`
	ImputedAssets        int      `json:"imputed_assets"`
	ZeroRateAssets       int      `json:"zero_rate_assets"`
	RevenueGrowthPercent *float64 `json:"revenue_growth_percent,omitempty"`
	OccupancyDelta       *float64 `json:"occupancy_delta,omitempty"`
}

// MonthlySummary is the KPI of one calendar month.
type MonthlySummary struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	KPI   FinancialKPI `json:"kpi"`
}

// ComputeFinancialKPIs computes fleet-wide figures over the effective fleet.
// Growth is only filled when previous is given with positive revenue.
func (e *Engine) ComputeFinancialKPIs(snapshots []model.AssetSnapshot, previous *FinancialKPI, p Period) FinancialKPI {
	imp := NewRateImputer(CanonicalList(snapshots), e.norm)
	fleet := e.EffectiveFleet(snapshots, p)

	k := FinancialKPI{Period: p, TotalAssets: len(fleet)}
	var rates []float64
	for _, s := range fleet {
		if !s.State.IsRenting() {
			continue
		}
		r := imp.EffectiveRate(s)
		switch {
		case imp.Imputed(s):
			k.ImputedAssets++
		case r == 0:
			k.ZeroRateAssets++
		}
		rates = append(rates, r)
	}
	k.RentedAssets = len(rates)
	weekly := floats.Sum(rates)
	monthly := weekly * e.cfg.WeeksPerMonth
	k.WeeklyRevenue = model.Round2(weekly)
	k.MonthlyRevenue = model.Round2(monthly)
	k.QuarterlyProjection = model.Round2(k.MonthlyRevenue * 3)
	k.YearlyProjection = model.Round2(k.MonthlyRevenue * 12)
	if k.TotalAssets > 0 {
		k.OccupancyRate = model.Round2(float64(k.RentedAssets) / float64(k.TotalAssets) * 100)
	}
	if k.RentedAssets > 0 {
		k.AverageTicket = model.Round2(weekly / float64(k.RentedAssets))
	}
	if previous != nil {
		delta := model.Round2(k.OccupancyRate - previous.OccupancyRate)
		k.OccupancyDelta = &delta
		if previous.MonthlyRevenue > 0 {
			g := model.Round2((k.MonthlyRevenue - previous.MonthlyRevenue) / previous.MonthlyRevenue * 100)
			k.RevenueGrowthPercent = &g
		}
	}
	return k
}

// MonthlyAnalysis computes one KPI per month of year, each compared with the
// month before it. For the current year it stops at the current month.
func (e *Engine) MonthlyAnalysis(snapshots []model.AssetSnapshot, year int) []MonthlySummary {
	now := e.localNow()
	last := 12
	switch {
	case year > now.Year():
		return nil
	case year == now.Year():
		last = int(now.Month())
	}
	out := make([]MonthlySummary, 0, last)
	var prev *FinancialKPI
	for m := 1; m <= last; m++ {
		k := e.ComputeFinancialKPIs(snapshots, prev, Month(year, m))
		out = append(out, MonthlySummary{Year: year, Month: m, KPI: k})
		prev = &out[len(out)-1].KPI
	}
	return out
}

// CurrentMonth returns the clock's calendar month in the engine's zone.
func (e *Engine) CurrentMonth() Period {
	now := e.localNow()
	return Month(now.Year(), int(now.Month()))
}
