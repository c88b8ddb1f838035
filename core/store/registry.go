package store

import "github.com/kilianp07/motofleet/core/factory"

var repoRegistry = factory.NewRegistry[Repository]()

// RegisterRepository adds a repository backend factory identified by name.
func RegisterRepository(name string, f factory.Factory[Repository]) error {
	return repoRegistry.Register(name, f)
}

// NewRepository creates the backend described by cfg.
func NewRepository(cfg factory.ModuleConfig) (Repository, error) {
	return repoRegistry.Create(cfg)
}

// Backends lists the registered backend names.
func Backends() []string { return repoRegistry.Types() }
