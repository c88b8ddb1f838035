package store

import (
	"context"
	"sync"

	"github.com/kilianp07/motofleet/core/model"
)

// MemoryRepository is a Repository over in-memory rows, used by tests and
// by the CLI when rows are piped in.
type MemoryRepository struct {
	mu     sync.RWMutex
	assets []model.AssetSnapshot
	maint  []model.MaintenanceRecord
	err    error
}

// NewMemoryRepository returns a repository holding copies of the given rows.
func NewMemoryRepository(assets []model.AssetSnapshot, maint []model.MaintenanceRecord) *MemoryRepository {
	r := &MemoryRepository{}
	r.Replace(assets, maint)
	return r
}

// Replace swaps the stored rows.
func (r *MemoryRepository) Replace(assets []model.AssetSnapshot, maint []model.MaintenanceRecord) {
	r.mu.Lock()
	r.assets = append([]model.AssetSnapshot(nil), assets...)
	r.maint = append([]model.MaintenanceRecord(nil), maint...)
	r.mu.Unlock()
}

// FailWith makes subsequent reads return err until it is reset with nil.
func (r *MemoryRepository) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *MemoryRepository) Assets(context.Context) ([]model.AssetSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]model.AssetSnapshot(nil), r.assets...), nil
}

func (r *MemoryRepository) Maintenance(context.Context) ([]model.MaintenanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]model.MaintenanceRecord(nil), r.maint...), nil
}
