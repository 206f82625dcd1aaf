// Package memory provides process-local slot storage and rate limiting.
// State is lost on restart.
package memory

import (
	"context"
	"sync"
)

// SlotStore keeps slots in a map.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSlotStore creates an empty in-memory slot store.
func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

func (s *SlotStore) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *SlotStore) Set(_ context.Context, slot string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot] = append([]byte(nil), value...)
	return nil
}

func (s *SlotStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}

// Ping always succeeds.
func (s *SlotStore) Ping(_ context.Context) error { return nil }

// Name returns the dependency name.
func (s *SlotStore) Name() string { return "memory" }
