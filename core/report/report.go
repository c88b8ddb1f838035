// Package report runs the fleet engine over a collection and keeps the
// latest result for readers.
package report

import (
	"time"

	"github.com/kilianp07/motofleet/core/fleet"
)

// Report is the full output of one engine run.
type Report struct {
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Period      fleet.Period              `json:"period"`
	Analyses    []fleet.RentalAnalysis    `json:"analyses"`
	ModelStats  []fleet.ModelRentalStats  `json:"model_stats"`
	Franchisees []fleet.FranchiseeRevenue `json:"franchisees"`
	KPI         fleet.FinancialKPI        `json:"kpi"`
	Goals       fleet.GoalAnalysis        `json:"goals"`
	Monthly     []fleet.MonthlySummary    `json:"monthly"`

	// Estimated is set when any period was synthesized rather than observed.
	Estimated     bool     `json:"estimated"`
	Historical    bool     `json:"historical"`
	SkippedAssets []string `json:"skipped_assets"`
}

// Analysis returns the analysis of one plate.
func (r Report) Analysis(plate string) (fleet.RentalAnalysis, bool) {
	for _, a := range r.Analyses {
		if a.Plate == plate {
			return a, true
		}
	}
	return fleet.RentalAnalysis{}, false
}

// Summary is the compact form of a report published to message brokers.
type Summary struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Period      string             `json:"period"`
	KPI         fleet.FinancialKPI `json:"kpi"`
	Attainment  float64            `json:"goal_attainment"`
	AboveGoal   []string           `json:"above_goal"`
	BelowGoal   []string           `json:"below_goal"`
	Estimated   bool               `json:"estimated"`
}

// Summary condenses the report.
func (r Report) Summary() Summary {
	return Summary{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Period:      r.Period.String(),
		KPI:         r.KPI,
		Attainment:  r.Goals.Attainment(),
		AboveGoal:   names(r.Goals.AboveGoal),
		BelowGoal:   names(r.Goals.BelowGoal),
		Estimated:   r.Estimated,
	}
}

func names(rs []fleet.FranchiseeRevenue) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Franchisee)
	}
	return out
}
