package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lorekeeper/internal/world"
)

// MemoryStore is a map-backed DataStore. It backs tests and serves as the
// fallback when the configured store cannot be opened.
type MemoryStore struct {
	mu     sync.RWMutex
	things map[uuid.UUID]world.Thing
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		things: make(map[uuid.UUID]world.Thing),
		values: make(map[string]string),
	}
}

// NewMemoryStoreWith returns a MemoryStore pre-seeded with things.
func NewMemoryStoreWith(things ...world.Thing) *MemoryStore {
	s := NewMemoryStore()
	for _, thing := range things {
		s.things[thing.UUID] = thing.Clone()
	}
	return s
}

func (s *MemoryStore) GetAllThings(_ context.Context) ([]world.Thing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	things := make([]world.Thing, 0, len(s.things))
	for _, thing := range s.things {
		things = append(things, thing.Clone())
	}
	sort.Slice(things, func(i, j int) bool {
		return things[i].UUID.String() < things[j].UUID.String()
	})
	return things, nil
}

func (s *MemoryStore) GetThingByUUID(_ context.Context, id uuid.UUID) (*world.Thing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if thing, ok := s.things[id]; ok {
		clone := thing.Clone()
		return &clone, nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveThing(_ context.Context, thing *world.Thing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.things[thing.UUID] = thing.Clone()
	return nil
}

func (s *MemoryStore) EditThing(ctx context.Context, thing *world.Thing) error {
	return s.SaveThing(ctx, thing)
}

func (s *MemoryStore) DeleteThingByUUID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.things, id)
	return nil
}

func (s *MemoryStore) GetValue(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) SetValue(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemoryStore) DeleteValue(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len reports the number of stored things.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.things)
}
