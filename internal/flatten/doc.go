// Package flatten converts an arbitrary, possibly cyclic, possibly huge
// in-memory value into an ordered flat sequence of node descriptors
// driven by an expansion set.
//
// The flat sequence is a valid pre-order traversal of the expanded
// portion of the value: a node's children, if expanded, occupy
// contiguous positions immediately after it. The sequence is a derived,
// disposable projection: it is recomputed wholesale when the root
// value changes and updated by a bounded splice when a single node's
// expansion toggles.
//
// Two guards bound the output for pathological inputs: a depth ceiling
// and a per-level item ceiling. Both truncate silently; exceeding them
// is a policy, not an error. Circular references terminate via a
// sentinel node per recurrence point.
package flatten
