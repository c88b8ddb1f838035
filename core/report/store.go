package report

import (
	"sync"

	"github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/store"
)

// Store keeps the latest report and the collection it was built from.
type Store interface {
	Set(Report)
	Latest() (Report, bool)
	Analysis(plate string) (fleet.RentalAnalysis, bool)
	SetCollection(store.Collection)
	Collection() (store.Collection, bool)
}

type MemoryStore struct {
	mu         sync.RWMutex
	latest     *Report
	collection *store.Collection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(r Report) {
	s.mu.Lock()
	s.latest = &r
	s.mu.Unlock()
}

func (s *MemoryStore) Latest() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Report{}, false
	}
	return *s.latest, true
}

func (s *MemoryStore) Analysis(plate string) (fleet.RentalAnalysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return fleet.RentalAnalysis{}, false
	}
	return s.latest.Analysis(plate)
}

func (s *MemoryStore) SetCollection(c store.Collection) {
	s.mu.Lock()
	s.collection = &c
	s.mu.Unlock()
}

func (s *MemoryStore) Collection() (store.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collection == nil {
		return store.Collection{}, false
	}
	return *s.collection, true
}
