package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// CronParser accepts an optional seconds field and descriptors such as
// "@every 1m".
var CronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ScheduleConfig drives the refresh of pull-based stores.
type ScheduleConfig struct {
	// Refresh is a cron spec; an empty spec after defaults is not allowed.
	Refresh string `json:"refresh"`
}

// SetDefaults applies sane defaults.
func (c *ScheduleConfig) SetDefaults() {
	if c.Refresh == "" {
		c.Refresh = "@every 1m"
	}
}

// Validate parses the cron spec.
func (c ScheduleConfig) Validate() error {
	if _, err := CronParser.Parse(c.Refresh); err != nil {
		return fmt.Errorf("invalid refresh spec %q: %w", c.Refresh, err)
	}
	return nil
}

// APIConfig configures the HTTP read API.
type APIConfig struct {
	Address  string `json:"address"`
	Disabled bool   `json:"disabled"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
}
