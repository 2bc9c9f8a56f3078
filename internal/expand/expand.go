// Package expand holds the expansion state: the set of node ids the
// user has chosen to expand.
//
// The set is owned by the caller (the UI layer). The flattening engine
// only reads snapshots of it and returns spliced sequences; it never
// writes the set directly. Removing an id leaves descendant ids in
// place; they become unreachable until the node is expanded again,
// which is harmless and preserves the user's nested expansion choices
// across a collapse/expand cycle.
package expand

import (
	"slices"
	"sync"
)

// Set is a concurrency-safe set of expanded node ids.
type Set struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// New creates an empty expansion set.
func New(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is expanded. Satisfies flatten.Expanded.
func (s *Set) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Add marks id as expanded.
func (s *Set) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Remove marks id as collapsed.
func (s *Set) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// Toggle flips the expansion state of id and returns the new state.
func (s *Set) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of expanded ids.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Snapshot returns the expanded ids in sorted order.
func (s *Set) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clear removes every id.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}
