// Package memstore is an in-process option store.
package memstore

import (
	"context"
	"sync"

	"quantwp/pkg/settings"
)

type Store struct {
	mu      sync.RWMutex
	options map[string]map[string]interface{}
	writes  int
	closed  bool
}

func New() *Store {
	return &Store{options: make(map[string]map[string]interface{})}
}

func (s *Store) Get(_ context.Context, name string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, settings.ErrStoreClosed
	}
	return copyMap(s.options[name]), nil
}

func (s *Store) Put(_ context.Context, name string, value map[string]interface{}) error {
	if name == "" {
		return settings.ErrOptionNameEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return settings.ErrStoreClosed
	}
	s.options[name] = copyMap(value)
	s.writes++
	return nil
}

// Writes returns how many Put calls succeeded.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
