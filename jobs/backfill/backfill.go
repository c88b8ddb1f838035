// Package backfill fills the KPI history from monthly recomputations so that
// growth figures are available before the service has run for a month.
package backfill

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/history"
	"github.com/kilianp07/motofleet/core/store"
)

// Result counts the records written.
type Result struct {
	Saved   int
	Skipped int
}

// Backfill computes the monthly KPIs of year over c and saves them to hist.
// Months without any asset are skipped. Existing records are overwritten.
func Backfill(ctx context.Context, e *fleet.Engine, hist history.Store, c store.Collection, year int, runID string) (Result, error) {
	var res Result
	now := e.Now()
	for _, m := range e.MonthlyAnalysis(c.Assets, year) {
		if m.KPI.TotalAssets == 0 {
			res.Skipped++
			continue
		}
		rec := history.Record{Period: fleet.Month(m.Year, m.Month), KPI: m.KPI, RunID: runID, UpdatedAt: now}
		if err := hist.Save(ctx, rec); err != nil {
			return res, fmt.Errorf("save %s: %w", rec.Period, err)
		}
		res.Saved++
	}
	return res, nil
}

// Years returns the calendar years touched by movements in c, oldest first.
func Years(c store.Collection) []int {
	seen := map[int]bool{}
	var out []int
	for _, s := range fleet.CanonicalList(c.Assets) {
		if s.LastMovementAt == nil {
			continue
		}
		y := s.LastMovementAt.In(time.UTC).Year()
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}
