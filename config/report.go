package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/motofleet/core/fleet"
)

// PeriodCurrent scopes scheduled reports to the clock's month.
const PeriodCurrent = "current"

// ReportConfig selects the period of scheduled reports.
type ReportConfig struct {
	// Period is "current", "all", "YYYY" or "YYYY-MM".
	Period string `json:"period"`
}

// SetDefaults applies sane defaults.
func (c *ReportConfig) SetDefaults() {
	if strings.TrimSpace(c.Period) == "" {
		c.Period = PeriodCurrent
	}
}

// Validate checks the period syntax.
func (c ReportConfig) Validate() error {
	if c.Period == PeriodCurrent {
		return nil
	}
	if _, err := fleet.ParsePeriod(c.Period); err != nil {
		return fmt.Errorf("period: %w", err)
	}
	return nil
}

// Resolve returns the period to report on. "current" is evaluated against the
// engine clock on every call.
func (c ReportConfig) Resolve(e *fleet.Engine) (fleet.Period, error) {
	if c.Period == PeriodCurrent || c.Period == "" {
		return e.CurrentMonth(), nil
	}
	return fleet.ParsePeriod(c.Period)
}
