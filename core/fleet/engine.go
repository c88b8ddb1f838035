// Package fleet reconstructs rental periods and revenue figures from the
// current-state snapshots of a motorcycle rental fleet.
//
// Every exported computation is a pure function of its arguments plus the
// engine clock. Malformed rows are excluded rather than reported as errors,
// so none of the aggregate methods fail.
package fleet

import "time"

// Engine bundles the configuration shared by all aggregates.
type Engine struct {
	cfg  Config
	norm ModelNormalizer
	now  func() time.Time
	loc  *time.Location
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for open periods and projections.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithNormalizer overrides the model name normalizer.
func WithNormalizer(n ModelNormalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.norm = n
		}
	}
}

// NewEngine creates an Engine. Zero config fields take their defaults.
func NewEngine(cfg Config, opts ...Option) *Engine {
	cfg.SetDefaults()
	e := &Engine{cfg: cfg, now: time.Now, loc: cfg.Location()}
	e.norm = NewAliasNormalizer(cfg.ModelAliases)
	for _, o := range opts {
		o(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Now returns the engine clock reading in UTC.
func (e *Engine) Now() time.Time { return e.now().UTC() }

// Location returns the zone of calendar computations.
func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) localNow() time.Time { return e.now().In(e.loc) }

// Normalizer returns the model normalizer in use.
func (e *Engine) Normalizer() ModelNormalizer { return e.norm }
