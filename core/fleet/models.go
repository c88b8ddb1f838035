package fleet

import (
	"sort"

	"github.com/kilianp07/motofleet/core/model"
)

// ModelRentalStats aggregates rental behaviour per normalized model.
type ModelRentalStats struct {
	Model                        string  `json:"model"`
	AssetCount                   int     `json:"asset_count"`
	PeriodCount                  int     `json:"period_count"`
	CompletedPeriods             int     `json:"completed_periods"`
	TotalDays                    int     `json:"total_days"`
	AverageDays                  float64 `json:"average_days"`
	MaintenanceCount             int     `json:"maintenance_count"`
	AverageMaintenancesPerPeriod float64 `json:"average_maintenances_per_period"`
}

// AggregateModelStats groups analyses by normalized model. The result is
// ordered by average days descending, then by model name.
func (e *Engine) AggregateModelStats(analyses []RentalAnalysis) []ModelRentalStats {
	groups := map[string]*ModelRentalStats{}
	plates := map[string]map[string]struct{}{}
	for _, a := range analyses {
		name := e.norm.Normalize(a.Model)
		st, ok := groups[name]
		if !ok {
			st = &ModelRentalStats{Model: name}
			groups[name] = st
			plates[name] = map[string]struct{}{}
		}
		plates[name][a.Plate] = struct{}{}
		st.PeriodCount += len(a.Periods)
		for _, p := range a.Periods {
			if p.End != nil {
				st.CompletedPeriods++
				st.TotalDays += p.DurationDays
			}
			st.MaintenanceCount += p.MaintenanceCount
		}
	}

	out := make([]ModelRentalStats, 0, len(groups))
	for name, st := range groups {
		st.AssetCount = len(plates[name])
		if st.CompletedPeriods > 0 {
			st.AverageDays = float64(st.TotalDays) / float64(st.CompletedPeriods)
		}
		if st.PeriodCount > 0 {
			st.AverageMaintenancesPerPeriod = model.Round2(float64(st.MaintenanceCount) / float64(st.PeriodCount))
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageDays != out[j].AverageDays {
			return out[i].AverageDays > out[j].AverageDays
		}
		return out[i].Model < out[j].Model
	})
	return out
}
