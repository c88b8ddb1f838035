package history

import (
	"fmt"
	"io"

	corehistory "github.com/kilianp07/motofleet/core/history"
)

// Config selects the KPI history backend.
type Config struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "kpi.db"
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory", "sqlite":
		return nil
	}
	return fmt.Errorf("unknown history backend %q", c.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New opens the configured store. The returned closer releases its
// resources.
func New(cfg Config) (corehistory.Store, io.Closer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Backend == "sqlite" {
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open history %s: %w", cfg.Path, err)
		}
		return s, s, nil
	}
	return corehistory.NewMemoryStore(), nopCloser{}, nil
}
