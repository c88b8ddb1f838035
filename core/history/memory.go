package history

import (
	"context"
	"sync"

	"github.com/kilianp07/motofleet/core/fleet"
)

// MemoryStore stores records in memory for testing or lightweight usage.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[fleet.Period]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[fleet.Period]Record{}}
}

func (s *MemoryStore) Save(_ context.Context, r Record) error {
	s.mu.Lock()
	s.data[r.Period] = r
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, p fleet.Period) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[p]
	return r, ok, nil
}
