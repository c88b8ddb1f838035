package fleet

import (
	"sort"
	"time"

	"github.com/kilianp07/motofleet/core/model"
)

// RentalPeriod is one interval during which an asset was rented. A nil End
// means the rental is still in progress.
type RentalPeriod struct {
	Plate            string                    `json:"plate"`
	Start            time.Time                 `json:"start"`
	End              *time.Time                `json:"end"`
	StartState       model.AssetState          `json:"start_state"`
	DurationDays     int                       `json:"duration_days"`
	MaintenanceCount int                       `json:"maintenance_count"`
	Maintenance      []model.MaintenanceRecord `json:"maintenance,omitempty"`

	// IsEstimated marks periods synthesized from a maintenance date or an
	// idle counter rather than an observed state transition.
	IsEstimated bool `json:"is_estimated"`
}

// IsOpen reports whether the period has no end yet.
func (p RentalPeriod) IsOpen() bool { return p.End == nil }

// RentalAnalysis summarizes the periods of one asset.
type RentalAnalysis struct {
	Plate             string           `json:"plate"`
	Model             string           `json:"model"`
	Periods           []RentalPeriod   `json:"periods"`
	CompletedPeriods  int              `json:"completed_periods"`
	TotalDays         int              `json:"total_days"`
	AverageDays       float64          `json:"average_days"`
	MaintenanceCount  int              `json:"maintenance_count"`
	MaintenanceNet    float64          `json:"maintenance_net"`
	CurrentState      model.AssetState `json:"current_state"`
	IsCurrentlyRented bool             `json:"is_currently_rented"`
	HasEstimates      bool             `json:"has_estimates"`
}

// Reconstruction is the detailed result of period reconstruction.
type Reconstruction struct {
	Analyses []RentalAnalysis

	// Historical is true when multi-snapshot history selected the historical
	// regime.
	Historical bool

	// Skipped lists plates without any timestamped snapshot.
	Skipped []string
}

// Estimated reports whether any analysis relies on synthesized periods.
func (r Reconstruction) Estimated() bool {
	for _, a := range r.Analyses {
		if a.HasEstimates {
			return true
		}
	}
	return false
}

// ReconstructPeriods infers rental periods from raw snapshots and attributes
// maintenance to them. Assets without any inferable period are omitted.
func (e *Engine) ReconstructPeriods(snapshots []model.AssetSnapshot, maintenance []model.MaintenanceRecord) []RentalAnalysis {
	return e.Reconstruct(snapshots, maintenance).Analyses
}

// Reconstruct is ReconstructPeriods with regime and skip details.
func (e *Engine) Reconstruct(snapshots []model.AssetSnapshot, maintenance []model.MaintenanceRecord) Reconstruction {
	now := e.Now()
	byPlate, plates := groupByPlate(snapshots)
	maint := maintenanceByPlate(maintenance)
	res := Reconstruction{Historical: hasHistory(byPlate)}

	for _, plate := range plates {
		group := byPlate[plate]
		current := Canonicalize(group)[plate]
		var periods []RentalPeriod
		var ok bool
		if res.Historical {
			periods, ok = historicalPeriods(group, maint[plate], now, e.loc)
		} else {
			periods, ok = e.estimatedPeriods(current, maint[plate], now)
		}
		if !ok {
			res.Skipped = append(res.Skipped, plate)
			continue
		}
		if len(periods) == 0 {
			continue
		}
		res.Analyses = append(res.Analyses, e.analyze(current, periods))
	}
	return res
}

func groupByPlate(snapshots []model.AssetSnapshot) (map[string][]model.AssetSnapshot, []string) {
	out := map[string][]model.AssetSnapshot{}
	for _, s := range snapshots {
		if s.Plate == "" {
			continue
		}
		out[s.Plate] = append(out[s.Plate], s)
	}
	plates := make([]string, 0, len(out))
	for p := range out {
		plates = append(plates, p)
	}
	sort.Strings(plates)
	return out, plates
}

func hasHistory(byPlate map[string][]model.AssetSnapshot) bool {
	for _, group := range byPlate {
		n := 0
		for _, s := range group {
			if s.LastMovementAt != nil {
				n++
			}
		}
		if n > 1 {
			return true
		}
	}
	return false
}

// historicalPeriods treats every snapshot as a state transition. The boolean
// is false when the asset has no timestamped snapshot.
func historicalPeriods(group []model.AssetSnapshot, maint []model.MaintenanceRecord, now time.Time, loc *time.Location) ([]RentalPeriod, bool) {
	var stamped []model.AssetSnapshot
	for _, s := range group {
		if s.LastMovementAt != nil {
			stamped = append(stamped, s)
		}
	}
	if len(stamped) == 0 {
		return nil, false
	}
	sort.SliceStable(stamped, func(i, j int) bool {
		return stamped[i].LastMovementAt.Before(*stamped[j].LastMovementAt)
	})
	var periods []RentalPeriod
	for i, cur := range stamped {
		if !cur.State.IsRenting() {
			continue
		}
		p := RentalPeriod{Plate: cur.Plate, Start: *cur.LastMovementAt, StartState: cur.State}
		if i+1 < len(stamped) {
			end := *stamped[i+1].LastMovementAt
			p.End = &end
			p.DurationDays = closedDuration(p.Start, end, loc)
		} else {
			p.DurationDays = closedDuration(p.Start, now, loc)
		}
		AttributeIn(&p, maint, loc)
		periods = append(periods, p)
	}
	return periods, true
}

// estimatedPeriods handles the single-snapshot regime for one canonical
// asset.
func (e *Engine) estimatedPeriods(cur model.AssetSnapshot, maint []model.MaintenanceRecord, now time.Time) ([]RentalPeriod, bool) {
	if cur.LastMovementAt == nil {
		return nil, false
	}
	if cur.State.IsRenting() {
		p := RentalPeriod{
			Plate:        cur.Plate,
			Start:        *cur.LastMovementAt,
			StartState:   cur.State,
			DurationDays: closedDuration(*cur.LastMovementAt, now, e.loc),
		}
		AttributeIn(&p, maint, e.loc)
		return []RentalPeriod{p}, true
	}
	var periods []RentalPeriod
	for _, m := range maint {
		p := e.estimatedWindow(cur.Plate, m.Date)
		p.Maintenance = []model.MaintenanceRecord{m}
		p.MaintenanceCount = 1
		periods = append(periods, p)
	}
	if cur.IdleDays > 0 {
		periods = append(periods, e.estimatedWindow(cur.Plate, *cur.LastMovementAt))
	}
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].Start.Before(periods[j].Start) })
	return periods, true
}

func (e *Engine) estimatedWindow(plate string, end time.Time) RentalPeriod {
	window := e.cfg.EstimatedWindowDays
	return RentalPeriod{
		Plate:        plate,
		Start:        end.AddDate(0, 0, -window),
		End:          &end,
		StartState:   model.StateRented,
		DurationDays: window,
		IsEstimated:  true,
	}
}

func (e *Engine) analyze(cur model.AssetSnapshot, periods []RentalPeriod) RentalAnalysis {
	a := RentalAnalysis{
		Plate:             cur.Plate,
		Model:             e.norm.Normalize(cur.Model),
		Periods:           periods,
		CurrentState:      cur.State,
		IsCurrentlyRented: cur.State.IsRenting(),
	}
	for _, p := range periods {
		if p.End != nil {
			a.CompletedPeriods++
			a.TotalDays += p.DurationDays
		}
		if p.IsEstimated {
			a.HasEstimates = true
		}
		a.MaintenanceCount += p.MaintenanceCount
		for _, m := range p.Maintenance {
			a.MaintenanceNet += m.NetAmount
		}
	}
	if a.CompletedPeriods > 0 {
		a.AverageDays = float64(a.TotalDays) / float64(a.CompletedPeriods)
	}
	a.MaintenanceNet = model.Round2(a.MaintenanceNet)
	return a
}

// closedDuration counts both end days; open periods pass now as end.
func closedDuration(start, end time.Time, loc *time.Location) int {
	d := model.DaysBetweenIn(start, end, loc) + 1
	if d < 0 {
		return 0
	}
	return d
}
