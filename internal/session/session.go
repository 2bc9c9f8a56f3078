// Package session ties the engines together on the caller's side of
// the contract: it owns a root value, an expansion set and the current
// flat sequence, and serializes the scheduling the engines themselves
// refuse to do.
//
// Full flattens are potentially expensive, so root changes are
// debounced (coalescing bursts) and at most one flatten is in flight
// per session; a newer root supersedes an in-flight pass and the stale
// result is discarded, never applied. Incremental toggles are bounded
// to one level and run synchronously; a toggle also supersedes any
// pass scheduled or running before it, rescheduling the pass so the
// splice is never reverted by a result computed against the older
// expansion state. Each pass flattens against a snapshot of the
// expansion set taken under the lock.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lenshq/lens/internal/expand"
	"github.com/lenshq/lens/internal/flatten"
	"github.com/lenshq/lens/internal/mutate"
	"github.com/lenshq/lens/internal/nodepath"
)

// DefaultDebounce is the delay used to coalesce bursts of root
// changes before re-flattening.
const DefaultDebounce = 100 * time.Millisecond

// Option configures a Session.
type Option func(*Session)

// WithLimits sets the flattening ceilings.
func WithLimits(l flatten.Limits) Option {
	return func(s *Session) { s.limits = l }
}

// WithDebounce sets the root-change coalescing delay. Zero disables
// debouncing: every SetRoot flattens synchronously.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithExpansion seeds the session with an existing expansion set.
func WithExpansion(set *expand.Set) Option {
	return func(s *Session) { s.expanded = set }
}

// WithOnUpdate registers a callback invoked with the fresh sequence
// after every applied flatten or toggle. Called outside the session
// lock.
func WithOnUpdate(fn func([]flatten.Node)) Option {
	return func(s *Session) { s.onUpdate = fn }
}

// Session is one inspected root. Safe for concurrent use.
type Session struct {
	id       string
	limits   flatten.Limits
	debounce time.Duration
	expanded *expand.Set
	onUpdate func([]flatten.Node)

	mu       sync.Mutex
	root     any
	nodes    []flatten.Node
	gen      uint64 // bumped on root changes and toggles; stale flattens are discarded
	timer    *time.Timer
	pending  bool // a debounced pass is scheduled
	inflight bool // a pass is flattening outside the lock
}

// New creates a session over root and runs the initial flatten
// synchronously.
func New(root any, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		debounce: DefaultDebounce,
		expanded: expand.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.root = root
	s.nodes = flatten.Flatten(root, s.expanded, s.limits)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Root returns the current root value.
func (s *Session) Root() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Nodes returns a copy of the current flat sequence.
func (s *Session) Nodes() []flatten.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]flatten.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Expanded returns the session's expansion set.
func (s *Session) Expanded() *expand.Set { return s.expanded }

// SetRoot replaces the inspected root. The re-flatten is debounced;
// a burst of calls produces one pass over the last root seen.
func (s *Session) SetRoot(root any) {
	s.mu.Lock()
	s.root = root
	s.gen++
	gen := s.gen
	if s.debounce <= 0 {
		s.mu.Unlock()
		s.reflatten(gen)
		return
	}
	s.rescheduleLocked(gen)
	s.mu.Unlock()
}

// rescheduleLocked (re)arms the debounce timer for a pass at gen.
// Callers hold s.mu.
func (s *Session) rescheduleLocked(gen uint64) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = true
	s.timer = time.AfterFunc(s.debounce, func() { s.reflatten(gen) })
}

// reflatten runs a full pass for the given generation and applies the
// result only if nothing newer arrived while it ran.
func (s *Session) reflatten(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	root := s.root
	// Flatten against a snapshot so a toggle landing mid-traversal
	// cannot tear the expansion state the pass observes.
	snapshot := expand.New(s.expanded.Snapshot()...)
	s.pending = false
	s.inflight = true
	s.mu.Unlock()

	nodes := flatten.Flatten(root, snapshot, s.limits)

	s.mu.Lock()
	s.inflight = false
	if gen != s.gen {
		// A newer root or a toggle superseded this pass; the result is
		// stale.
		s.mu.Unlock()
		return
	}
	s.nodes = nodes
	s.mu.Unlock()
	s.notify(nodes)
}

// Toggle flips the expansion of the node with the given id via the
// incremental path and keeps the expansion set in step with the
// spliced sequence. A stale target id is a no-op returning false.
func (s *Session) Toggle(id string) bool {
	s.mu.Lock()
	nodes, ok := flatten.ToggleExpand(s.nodes, id, s.root, s.limits)
	if !ok {
		s.mu.Unlock()
		return false
	}
	if s.expanded.Has(id) {
		// Collapsing: purge descendant ids too, so an incremental
		// re-expand and a full flatten agree on the children starting
		// collapsed.
		for i := range s.nodes {
			if s.nodes[i].ParentID != "" && isDescendantID(s.nodes[i].ID, id) {
				s.expanded.Remove(s.nodes[i].ID)
			}
		}
		s.expanded.Remove(id)
	} else {
		s.expanded.Add(id)
	}
	s.nodes = nodes
	// A pass started or scheduled before this splice would apply nodes
	// computed against the old expansion state and revert it. Supersede
	// that pass and reschedule it over the toggled state.
	s.gen++
	if s.pending || s.inflight {
		s.rescheduleLocked(s.gen)
	}
	s.mu.Unlock()
	s.notify(nodes)
	return true
}

// Edit applies a typed replacement value at path, swaps the new root
// in and re-flattens. A path that no longer resolves is a benign
// no-op; other errors are returned.
func (s *Session) Edit(path nodepath.Path, newValue any) error {
	s.mu.Lock()
	newRoot, err := mutate.SetAtPath(s.root, path, newValue)
	if err != nil {
		s.mu.Unlock()
		if mutate.IsPathNotFound(err) {
			return nil
		}
		return err
	}
	s.root = newRoot
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.reflatten(gen)
	return nil
}

// Delete removes the node at path, swaps the new root in and
// re-flattens. A path that no longer resolves is a benign no-op.
func (s *Session) Delete(path nodepath.Path) error {
	s.mu.Lock()
	newRoot, err := mutate.DeleteAtPath(s.root, path)
	if err != nil {
		s.mu.Unlock()
		if mutate.IsPathNotFound(err) {
			return nil
		}
		return err
	}
	s.root = newRoot
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.reflatten(gen)
	return nil
}

// Close stops any pending debounced flatten.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
}

func (s *Session) notify(nodes []flatten.Node) {
	if s.onUpdate != nil {
		s.onUpdate(nodes)
	}
}

// isDescendantID reports whether id lies under ancestor in the path
// hierarchy. IDs are canonical display strings, so a descendant is the
// ancestor followed by a '.' or '[' separator.
func isDescendantID(id, ancestor string) bool {
	if len(id) <= len(ancestor) || id[:len(ancestor)] != ancestor {
		return false
	}
	return id[len(ancestor)] == '.' || id[len(ancestor)] == '['
}
