package fleet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/motofleet/core/model"
)

// Period scopes an aggregate to a calendar year or month. The zero value means
// all time; Month 0 means the whole Year.
type Period struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// AllTime is the unscoped period.
var AllTime = Period{}

// Year returns the period covering a calendar year.
func Year(y int) Period { return Period{Year: y} }

// Month returns the period covering one calendar month.
func Month(y, m int) Period { return Period{Year: y, Month: m} }

// IsAllTime reports whether p is unscoped.
func (p Period) IsAllTime() bool { return p.Year == 0 }

// Validate checks the month range.
func (p Period) Validate() error {
	if p.Month < 0 || p.Month > 12 {
		return fmt.Errorf("invalid month %d", p.Month)
	}
	if p.Year == 0 && p.Month != 0 {
		return fmt.Errorf("month %d requires a year", p.Month)
	}
	return nil
}

// Bounds returns the half-open UTC interval [start, end) of the period.
func (p Period) Bounds() (time.Time, time.Time) { return p.BoundsIn(time.UTC) }

// BoundsIn returns the half-open interval [start, end) of the period's
// calendar in loc.
func (p Period) BoundsIn(loc *time.Location) (time.Time, time.Time) {
	if p.Month == 0 {
		start := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// Previous returns the period immediately before p. All time has no
// predecessor and returns itself.
func (p Period) Previous() Period {
	switch {
	case p.IsAllTime():
		return p
	case p.Month == 0:
		return Year(p.Year - 1)
	case p.Month == 1:
		return Month(p.Year-1, 12)
	default:
		return Month(p.Year, p.Month-1)
	}
}

// String renders "all", "2024" or "2024-03".
func (p Period) String() string {
	switch {
	case p.IsAllTime():
		return "all"
	case p.Month == 0:
		return fmt.Sprintf("%04d", p.Year)
	default:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	}
}

// ParsePeriod is the inverse of String.
func ParsePeriod(s string) (Period, error) {
	if s == "" || s == "all" {
		return AllTime, nil
	}
	ys, ms, hasMonth := strings.Cut(s, "-")
	y, err := strconv.Atoi(ys)
	if err != nil || y < 1 {
		return AllTime, fmt.Errorf("invalid period %q", s)
	}
	if !hasMonth {
		return Year(y), nil
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 1 {
		return AllTime, fmt.Errorf("invalid period %q", s)
	}
	p := Month(y, m)
	return p, p.Validate()
}

// EffectiveFleet returns the canonical asset set as of the period. Scoped
// periods keep snapshots that moved inside the period plus renting snapshots
// that moved before it; later or untimestamped snapshots are excluded.
func (e *Engine) EffectiveFleet(snapshots []model.AssetSnapshot, p Period) []model.AssetSnapshot {
	if p.IsAllTime() {
		return CanonicalList(snapshots)
	}
	start, end := p.BoundsIn(e.loc)
	scoped := make([]model.AssetSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.LastMovementAt == nil {
			continue
		}
		ts := *s.LastMovementAt
		switch {
		case !ts.Before(end):
			continue
		case ts.Before(start) && !s.State.IsRenting():
			continue
		}
		scoped = append(scoped, s)
	}
	return CanonicalList(scoped)
}
