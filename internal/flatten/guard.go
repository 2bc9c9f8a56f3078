package flatten

import "reflect"

// cycleGuard detects a container value already present on the current
// traversal stack, by identity. Scope is one traversal invocation: a
// fresh guard is created for each full pass and each incremental
// expansion, so only cycles within a single traversal are caught.
// Cycles that span separate expand actions re-enter under a new guard
// and are flagged at their new recurrence point instead. Known
// limitation, kept deliberately: cross-call memoization would have to
// guess which entry point "owns" the cycle.
//
// Identity is the referent address. Only reference kinds can
// participate in a cycle in the first place: a by-value struct cannot
// contain itself.
type cycleGuard struct {
	active map[ref]struct{}
}

// ref identifies a container referent. The kind disambiguates distinct
// allocations that happen to share an address (e.g. a struct and its
// first field).
type ref struct {
	ptr  uintptr
	kind reflect.Kind
}

func newCycleGuard() *cycleGuard {
	return &cycleGuard{active: make(map[ref]struct{})}
}

// Enter marks v as on the active stack. It returns true if v was
// already there (a cycle), in which case v is not re-marked and no
// Exit is owed.
func (g *cycleGuard) Enter(v any) bool {
	r, ok := identity(v)
	if !ok {
		return false
	}
	if _, seen := g.active[r]; seen {
		return true
	}
	g.active[r] = struct{}{}
	return false
}

// Exit unmarks v on traversal backtrack.
func (g *cycleGuard) Exit(v any) {
	if r, ok := identity(v); ok {
		delete(g.active, r)
	}
}

// identity resolves v to a trackable referent. Values with no stable
// address (by-value structs, primitives) report ok=false and are never
// treated as cyclic.
func identity(v any) (ref, bool) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ref{}, false
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return ref{}, false
		}
		return ref{ptr: rv.Pointer(), kind: rv.Kind()}, true
	default:
		return ref{}, false
	}
}
