package flatten

import (
	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/nodepath"
)

// Node is one entry in the flat sequence: a single value at a specific
// path, plus the metadata a virtualized renderer needs. Value holds a
// reference into the root value, never a copy.
type Node struct {
	// ID is the canonical display string of Path. Unique within one
	// flat sequence; stable across passes while the value's structural
	// position is unchanged.
	ID string

	// Key is the local name or index under the parent. The root node's
	// key is "$".
	Key string

	// Value is the raw value at this node.
	Value any

	// Kind is the classifier's category for Value. KindCircular marks
	// a sentinel emitted in place of recursing into a container
	// already on the traversal stack.
	Kind classify.Kind

	// Depth is 0 for the root; children are always parent depth + 1.
	Depth int

	// IsExpandable is true iff Kind is a container kind and the depth
	// ceiling still permits descending into it.
	IsExpandable bool

	// IsExpanded is true iff ID was in the expansion snapshot used for
	// this pass.
	IsExpanded bool

	// ChildCount is the number of direct children, capped at the
	// per-level item ceiling.
	ChildCount int

	// ParentID is the id of the immediate parent, empty for the root.
	ParentID string

	// Path addresses this node for editing. Redundant with ID but kept
	// structured so edits never re-parse the display string.
	Path nodepath.Path

	// Rendering guides. Not required for correctness of flattening or
	// mutation.
	SiblingIndex  int
	TotalSiblings int
	IsLastChild   bool
}

// Limits bounds the flattening pass. Inspected values are unbounded
// and developer-supplied, so both ceilings are required safety valves,
// not optimizations: total emitted nodes are O(MaxItemsPerLevel^MaxDepth)
// in the worst case.
type Limits struct {
	// MaxDepth is the deepest level children are emitted at. Nodes at
	// the ceiling are still emitted, marked non-expandable.
	MaxDepth int

	// MaxItemsPerLevel caps each container's emitted children. Excess
	// children are silently truncated.
	MaxItemsPerLevel int
}

// Default ceilings, applied when a Limits field is zero.
const (
	DefaultMaxDepth         = 10
	DefaultMaxItemsPerLevel = 100
)

// withDefaults replaces zero fields with the default ceilings.
func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxItemsPerLevel <= 0 {
		l.MaxItemsPerLevel = DefaultMaxItemsPerLevel
	}
	return l
}

// Expanded is the read-only view of the expansion state the engine
// consumes. *expand.Set satisfies it.
type Expanded interface {
	Has(id string) bool
}

// ExpandAll is an Expanded that treats every node as expanded. Useful
// for whole-document dumps; the depth ceiling and circular guard keep
// the output bounded.
type ExpandAll struct{}

// Has always reports true.
func (ExpandAll) Has(string) bool { return true }
