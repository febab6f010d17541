// Package snapshot
package snapshot

import "sync"

type Store[T any] struct {
	mu   sync.RWMutex
	data T
	set  bool
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.data = v
	s.set = true
	s.mu.Unlock()
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Ready reports whether Set has been called at least once.
func (s *Store[T]) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}
