// Package history keeps one KPI summary per period so that later runs can
// report growth against the period before.
package history

import (
	"context"
	"time"

	"github.com/kilianp07/motofleet/core/fleet"
)

// Record is the KPI computed for a period.
type Record struct {
	Period    fleet.Period       `json:"period"`
	KPI       fleet.FinancialKPI `json:"kpi"`
	RunID     string             `json:"run_id"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store persists KPI records keyed by period. Saving a period twice
// overwrites the first record.
type Store interface {
	Save(ctx context.Context, r Record) error
	Get(ctx context.Context, p fleet.Period) (Record, bool, error)
}

// Previous looks up the record of the period preceding p and returns its
// KPI, or nil when there is none.
func Previous(ctx context.Context, s Store, p fleet.Period) (*fleet.FinancialKPI, error) {
	if s == nil || p.IsAllTime() {
		return nil, nil
	}
	r, ok, err := s.Get(ctx, p.Previous())
	if err != nil || !ok {
		return nil, err
	}
	return &r.KPI, nil
}
