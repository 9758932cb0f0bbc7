// Package cache keeps the last fetched list of every entity kind for the lifetime of
// the process. Nothing is persisted.
package cache

import (
	"sync"
)

type Store struct {
	mu    sync.RWMutex
	lists map[string]any
	sizes map[string]int
}

func New() *Store {
	return &Store{
		lists: make(map[string]any),
		sizes: make(map[string]int),
	}
}

// Put replaces the cached list of kind. A nil list is stored as empty.
func Put[T any](s *Store, kind string, items []T) {
	if items == nil {
		items = []T{}
	}
	cp := make([]T, len(items))
	copy(cp, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[kind] = cp
	s.sizes[kind] = len(cp)
}

// Get returns a copy of the cached list of kind, or nil when nothing of that type is cached.
func Get[T any](s *Store, kind string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.lists[kind].([]T)
	if !ok {
		return nil
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return cp
}

func (s *Store) Len(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sizes[kind]
}

// Reset stores an empty list for each kind.
func (s *Store) Reset(kinds ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range kinds {
		s.lists[k] = nil
		s.sizes[k] = 0
	}
}

func (s *Store) Kinds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.lists))
	for k := range s.lists {
		out = append(out, k)
	}
	return out
}
