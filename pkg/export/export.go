// Package export renders fleet reports for files and terminals.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/report"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFranchiseesCSV writes one row per franchisee revenue.
func WriteFranchiseesCSV(w io.Writer, rows []fleet.FranchiseeRevenue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"franchisee", "weekly_revenue", "monthly_revenue", "rented", "total",
		"occupancy_percent", "average_per_asset", "imputed",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Franchisee,
			money(r.WeeklyRevenue),
			money(r.MonthlyRevenue),
			strconv.Itoa(r.RentedCount),
			strconv.Itoa(r.TotalAssets),
			money(r.OccupancyRate),
			money(r.AverageRevenuePerAsset),
			strconv.Itoa(r.ImputedAssets),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGoalsCSV writes the goal split of a report, tagging each franchisee
// as above or below the occupancy goal.
func WriteGoalsCSV(w io.Writer, g fleet.GoalAnalysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"franchisee", "occupancy_percent", "goal_percent", "status"}); err != nil {
		return err
	}
	goal := money(g.Threshold)
	for _, group := range []struct {
		status string
		rows   []fleet.FranchiseeRevenue
	}{{"above", g.AboveGoal}, {"below", g.BelowGoal}} {
		for _, r := range group.rows {
			if err := cw.Write([]string{r.Franchisee, money(r.OccupancyRate), goal, group.status}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport writes r as JSON or, for "csv", its franchisee table.
func WriteReport(w io.Writer, r report.Report, format string) error {
	if format == "csv" {
		return WriteFranchiseesCSV(w, r.Franchisees)
	}
	return WriteJSON(w, r)
}

func money(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}
