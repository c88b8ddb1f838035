package fleet

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// History modes select which snapshot list the report pipeline hands to the
// period reconstructor.
const (
	// HistoryCanonical collapses duplicate rows before reconstruction, treating
	// them as stale imports.
	HistoryCanonical = "canonical"
	// HistoryAuto passes raw rows so that real multi-snapshot history selects
	// the historical regime.
	HistoryAuto = "auto"
)

// Config holds the tunables of the engine.
type Config struct {
	// OccupancyGoalPercent is the franchisee occupancy target.
	OccupancyGoalPercent float64 `json:"occupancy_goal_percent"`
	// WeeksPerMonth converts weekly revenue to monthly revenue.
	WeeksPerMonth float64 `json:"weeks_per_month"`
	// EstimatedWindowDays is the length of periods synthesized from indirect
	// evidence.
	EstimatedWindowDays int `json:"estimated_window_days"`
	// HistoryMode is HistoryCanonical or HistoryAuto.
	HistoryMode string `json:"history_mode"`
	// ModelAliases maps lower-cased model spellings to a canonical name.
	ModelAliases map[string]string `json:"model_aliases"`
	// Timezone is the IANA zone whose calendar days and months the reports
	// follow, e.g. "America/Bahia".
	Timezone string `json:"timezone"`
}

// Location loads Timezone, falling back to UTC when it is invalid.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultConfig returns the values the business has used so far.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.OccupancyGoalPercent == 0 {
		c.OccupancyGoalPercent = 91
	}
	if c.WeeksPerMonth == 0 {
		c.WeeksPerMonth = 4.33
	}
	if c.EstimatedWindowDays == 0 {
		c.EstimatedWindowDays = 30
	}
	if c.HistoryMode == "" {
		c.HistoryMode = HistoryCanonical
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.OccupancyGoalPercent < 0 || c.OccupancyGoalPercent > 100 {
		return fmt.Errorf("occupancy_goal_percent must be within [0,100], got %v", c.OccupancyGoalPercent)
	}
	if c.WeeksPerMonth <= 0 {
		return fmt.Errorf("weeks_per_month must be positive")
	}
	if c.EstimatedWindowDays <= 0 {
		return fmt.Errorf("estimated_window_days must be positive")
	}
	if c.HistoryMode != HistoryCanonical && c.HistoryMode != HistoryAuto {
		return fmt.Errorf("unknown history_mode %s", c.HistoryMode)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}
