package fleet

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/motofleet/core/model"
)

const rankSize = 3

// GoalAnalysis partitions franchisees against the occupancy goal.
type GoalAnalysis struct {
	Threshold        float64             `json:"threshold"`
	AboveGoal        []FranchiseeRevenue `json:"above_goal"`
	BelowGoal        []FranchiseeRevenue `json:"below_goal"`
	AverageOccupancy float64             `json:"average_occupancy"`
	Top              []FranchiseeRevenue `json:"top"`
	Bottom           []FranchiseeRevenue `json:"bottom"`
	Franchisees      int                 `json:"franchisees"`
}

// Attainment is the share of franchisees at or above the goal, in percent.
func (g GoalAnalysis) Attainment() float64 {
	if g.Franchisees == 0 {
		return 0
	}
	return model.Round2(float64(len(g.AboveGoal)) / float64(g.Franchisees) * 100)
}

// AnalyzeGoals runs goal analysis over the franchisee revenue of the period.
func (e *Engine) AnalyzeGoals(snapshots []model.AssetSnapshot, p Period) GoalAnalysis {
	return AnalyzeGoalsFrom(e.ComputeFranchiseeRevenue(snapshots, p), e.cfg.OccupancyGoalPercent)
}

// AnalyzeGoalsFrom partitions revenues at threshold (inclusive above) and
// ranks them by occupancy.
func AnalyzeGoalsFrom(revenues []FranchiseeRevenue, threshold float64) GoalAnalysis {
	g := GoalAnalysis{
		Threshold:   threshold,
		AboveGoal:   []FranchiseeRevenue{},
		BelowGoal:   []FranchiseeRevenue{},
		Top:         []FranchiseeRevenue{},
		Bottom:      []FranchiseeRevenue{},
		Franchisees: len(revenues),
	}
	if len(revenues) == 0 {
		return g
	}
	occ := make([]float64, len(revenues))
	for i, r := range revenues {
		occ[i] = r.OccupancyRate
		if r.OccupancyRate >= threshold {
			g.AboveGoal = append(g.AboveGoal, r)
		} else {
			g.BelowGoal = append(g.BelowGoal, r)
		}
	}
	g.AverageOccupancy = model.Round2(stat.Mean(occ, nil))

	ranked := append([]FranchiseeRevenue(nil), revenues...)
	sort.SliceStable(ranked, func(i, j int) bool { return better(ranked[i], ranked[j]) })
	n := min(rankSize, len(ranked))
	g.Top = append(g.Top, ranked[:n]...)

	sort.SliceStable(ranked, func(i, j int) bool { return worse(ranked[i], ranked[j]) })
	g.Bottom = append(g.Bottom, ranked[:n]...)
	return g
}

func better(a, b FranchiseeRevenue) bool {
	if a.OccupancyRate != b.OccupancyRate {
		return a.OccupancyRate > b.OccupancyRate
	}
	if a.WeeklyRevenue != b.WeeklyRevenue {
		return a.WeeklyRevenue > b.WeeklyRevenue
	}
	return a.Franchisee < b.Franchisee
}

func worse(a, b FranchiseeRevenue) bool {
	if a.OccupancyRate != b.OccupancyRate {
		return a.OccupancyRate < b.OccupancyRate
	}
	if a.WeeklyRevenue != b.WeeklyRevenue {
		return a.WeeklyRevenue > b.WeeklyRevenue
	}
	return a.Franchisee < b.Franchisee
}
