package fleet

import (
	"sort"
	"time"

	"github.com/kilianp07/motofleet/core/model"
)

// Covers reports whether the maintenance date falls inside the period. The
// comparison is inclusive on both ends at UTC calendar-day granularity; open
// periods cover every date on or after their start.
func (p RentalPeriod) Covers(date time.Time) bool { return p.CoversIn(date, time.UTC) }

// CoversIn is Covers with calendar days taken in loc.
func (p RentalPeriod) CoversIn(date time.Time, loc *time.Location) bool {
	d := model.DayIn(date, loc)
	if d.Before(model.DayIn(p.Start, loc)) {
		return false
	}
	return p.End == nil || !d.After(model.DayIn(*p.End, loc))
}

// Attribute appends to p every record it covers in UTC days. Records are
// expected to belong to the period's asset.
func Attribute(p *RentalPeriod, records []model.MaintenanceRecord) {
	AttributeIn(p, records, time.UTC)
}

// AttributeIn is Attribute with calendar days taken in loc.
func AttributeIn(p *RentalPeriod, records []model.MaintenanceRecord, loc *time.Location) {
	for _, r := range records {
		if p.CoversIn(r.Date, loc) {
			p.Maintenance = append(p.Maintenance, r)
		}
	}
	p.MaintenanceCount = len(p.Maintenance)
}

func maintenanceByPlate(records []model.MaintenanceRecord) map[string][]model.MaintenanceRecord {
	out := map[string][]model.MaintenanceRecord{}
	for _, r := range records {
		if r.Plate == "" || r.Date.IsZero() {
			continue
		}
		out[r.Plate] = append(out[r.Plate], r)
	}
	for plate := range out {
		recs := out[plate]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	}
	return out
}
