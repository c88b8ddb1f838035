package report

import (
	"github.com/google/uuid"

	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/store"
)

// Builder runs every aggregate of the engine over a collection.
type Builder struct {
	engine *fleet.Engine
	log    logger.Logger
	newID  func() string
}

// NewBuilder returns a Builder using engine.
func NewBuilder(engine *fleet.Engine, log logger.Logger) *Builder {
	return &Builder{engine: engine, log: logger.OrNop(log), newID: uuid.NewString}
}

// Engine returns the engine used by the builder.
func (b *Builder) Engine() *fleet.Engine { return b.engine }

// Build computes a report for the period without growth comparison.
func (b *Builder) Build(c store.Collection, p fleet.Period) Report {
	return b.BuildWithPrevious(c, p, nil)
}

// BuildWithPrevious computes a report, comparing the KPI against previous
// when it is not nil.
func (b *Builder) BuildWithPrevious(c store.Collection, p fleet.Period, previous *fleet.FinancialKPI) Report {
	e := b.engine
	periodInput := c.Assets
	if e.Config().HistoryMode == fleet.HistoryCanonical {
		periodInput = fleet.CanonicalList(c.Assets)
	}
	rec := e.Reconstruct(periodInput, c.Maintenance)
	revenues := e.ComputeFranchiseeRevenue(c.Assets, p)

	r := Report{
		RunID:         b.newID(),
		GeneratedAt:   e.Now(),
		Period:        p,
		Analyses:      nonNil(rec.Analyses),
		ModelStats:    e.AggregateModelStats(rec.Analyses),
		Franchisees:   revenues,
		KPI:           e.ComputeFinancialKPIs(c.Assets, previous, p),
		Goals:         fleet.AnalyzeGoalsFrom(revenues, e.Config().OccupancyGoalPercent),
		Monthly:       e.MonthlyAnalysis(c.Assets, b.monthlyYear(p)),
		Estimated:     rec.Estimated(),
		Historical:    rec.Historical,
		SkippedAssets: nonNil(rec.Skipped),
	}
	b.log.Infof("report %s for %s: %d assets, %d analyses, %d franchisees, %d skipped",
		r.RunID, p, r.KPI.TotalAssets, len(r.Analyses), len(r.Franchisees), len(r.SkippedAssets))
	return r
}

func (b *Builder) monthlyYear(p fleet.Period) int {
	if p.IsAllTime() {
		return b.engine.CurrentMonth().Year
	}
	return p.Year
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
