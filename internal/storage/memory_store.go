package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, items map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range items {
		s.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// UnavailableStore models a host without a storage API.
type UnavailableStore struct{}

func (UnavailableStore) Get(_ context.Context, _ ...string) (map[string][]byte, error) {
	return nil, ErrStoreUnavailable
}

func (UnavailableStore) Set(_ context.Context, _ map[string][]byte) error {
	return ErrStoreUnavailable
}

func (UnavailableStore) Close() error {
	return nil
}
