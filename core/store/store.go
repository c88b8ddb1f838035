// Package store defines how fleet rows reach the engine: a Repository is
// pulled on demand and a Watcher pushes full collections as they change.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/motofleet/core/model"
)

// Collection is one complete read of the backing store.
type Collection struct {
	Assets      []model.AssetSnapshot
	Maintenance []model.MaintenanceRecord
	FetchedAt   time.Time
}

// Empty reports whether the collection carries no asset.
func (c Collection) Empty() bool { return len(c.Assets) == 0 }

// Repository reads the current asset and maintenance rows.
type Repository interface {
	Assets(ctx context.Context) ([]model.AssetSnapshot, error)
	Maintenance(ctx context.Context) ([]model.MaintenanceRecord, error)
}

// Watcher emits a full Collection every time the data changes. The channel
// is closed once ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Collection, error)
}

// Fetch reads both tables of repo into a Collection.
func Fetch(ctx context.Context, repo Repository) (Collection, error) {
	assets, err := repo.Assets(ctx)
	if err != nil {
		return Collection{}, fmt.Errorf("fetch assets: %w", err)
	}
	maint, err := repo.Maintenance(ctx)
	if err != nil {
		return Collection{}, fmt.Errorf("fetch maintenance: %w", err)
	}
	return Collection{Assets: assets, Maintenance: maint, FetchedAt: time.Now().UTC()}, nil
}
