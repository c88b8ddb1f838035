// Package config loads the service configuration from a YAML or JSON file
// with K_ environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/metrics"
	"github.com/kilianp07/motofleet/infra/history"
	"github.com/kilianp07/motofleet/infra/logger"
	"github.com/kilianp07/motofleet/infra/mqtt"
)

type Config struct {
	Engine   fleet.Config         `json:"engine"`
	Store    factory.ModuleConfig `json:"store"`
	Schedule ScheduleConfig       `json:"schedule"`
	Report   ReportConfig         `json:"report"`
	Metrics  metrics.Config       `json:"metrics"`
	API      APIConfig            `json:"api"`
	History  history.Config       `json:"history"`
	MQTT     mqtt.Config          `json:"mqtt"`
	Logging  logger.Config        `json:"logging"`
	Sentry   SentryConfig         `json:"sentry"`
}

// Default returns a configuration with every section defaulted.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Engine.SetDefaults()
	c.Schedule.SetDefaults()
	c.Report.SetDefaults()
	c.Metrics.SetDefaults()
	c.API.SetDefaults()
	c.History.SetDefaults()
	c.Logging.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section. The MQTT section is only checked when a
// broker is set.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Schedule.Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	if c.MQTT.Broker != "" {
		if err := c.MQTT.Validate(); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
