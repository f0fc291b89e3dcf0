package tracker

import (
	"slices"
	"sync"

	"go.trai.ch/pathwatch/internal/core/domain"
)

// PathSet is the authoritative set of tracked paths.
//
// Writes happen only on the sequencer worker. The lock exists so that
// Snapshot and Status can read the set from other goroutines.
type PathSet struct {
	mu    sync.RWMutex
	paths map[domain.TrackedPath]struct{}
}

// NewPathSet returns an empty PathSet.
func NewPathSet() *PathSet {
	return &PathSet{paths: make(map[domain.TrackedPath]struct{})}
}

// Add inserts p and reports whether it was not present before.
func (s *PathSet) Add(p domain.TrackedPath) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paths[p]; ok {
		return false
	}
	s.paths[p] = struct{}{}
	return true
}

// Remove deletes p and reports whether it was present.
func (s *PathSet) Remove(p domain.TrackedPath) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paths[p]; !ok {
		return false
	}
	delete(s.paths, p)
	return true
}

// Has reports whether p is tracked.
func (s *PathSet) Has(p domain.TrackedPath) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.paths[p]
	return ok
}

// Len returns the number of tracked paths.
func (s *PathSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.paths)
}

// Clear removes every path.
func (s *PathSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.paths)
}

// Sorted returns the tracked paths in lexical order.
func (s *PathSet) Sorted() []domain.TrackedPath {
	s.mu.RLock()
	out := make([]domain.TrackedPath, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	s.mu.RUnlock()

	slices.Sort(out)
	return out
}
