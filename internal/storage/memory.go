package storage

import (
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps values in a map. Used for tests and backend=memory.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	used     int64
	capacity int64
}

// NewMemoryStore creates an empty store. capacity <= 0 means unlimited.
func NewMemoryStore(capacity int64) *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		capacity: capacity,
	}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := int64(len(s.values[key]))
	if err := checkCapacity(s.capacity, s.used, old, int64(len(value))); err != nil {
		return err
	}
	s.values[key] = value
	s.used += int64(len(value)) - old
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		s.used -= int64(len(v))
		delete(s.values, key)
	}
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values)), nil
}

func (s *MemoryStore) Close() error { return nil }
