package flatten

import (
	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/nodepath"
)

// Flatten runs a full pre-order pass over root, descending only into
// containers whose ids are in the expansion snapshot, and returns the
// resulting flat sequence.
//
// Output is deterministic for identical inputs: sequences enumerate in
// position order, records in declaration order, and associative and
// distinct-element collections in sorted key order. A container found
// already on the traversal stack is emitted as a single sentinel
// circular node and not descended into.
func Flatten(root any, expanded Expanded, limits Limits) []Node {
	limits = limits.withDefaults()
	w := &walker{
		expanded: expanded,
		limits:   limits,
		guard:    newCycleGuard(),
		// A rough pre-size; expanded trees routinely emit dozens of
		// nodes even for small values.
		out: make([]Node, 0, 64),
	}
	w.walk(root, nil, "", 0, 1)
	return w.out
}

type walker struct {
	expanded Expanded
	limits   Limits
	guard    *cycleGuard
	out      []Node
}

// walk emits the node at path and, when expanded, its subtree.
// sibIndex and sibTotal are the node's position among its parent's
// emitted children.
func (w *walker) walk(value any, path nodepath.Path, parentID string, sibIndex, sibTotal int) {
	kind := classify.Classify(value)
	node := w.describe(value, kind, path, parentID, sibIndex, sibTotal)

	if !kind.IsContainer() {
		w.out = append(w.out, node)
		return
	}
	if w.guard.Enter(value) {
		// Already on the active stack: emit the sentinel in place of
		// the node and do not descend.
		node.Kind = classify.KindCircular
		node.IsExpandable = false
		node.IsExpanded = false
		node.ChildCount = 0
		w.out = append(w.out, node)
		return
	}
	defer w.guard.Exit(value)

	w.out = append(w.out, node)
	if !node.IsExpandable || !node.IsExpanded {
		return
	}
	children := classify.Children(value, w.limits.MaxItemsPerLevel)
	for i, c := range children {
		w.walk(c.Value, path.Append(c.Segment), node.ID, i, len(children))
	}
}

// describe builds the descriptor for a single node without descending.
func (w *walker) describe(value any, kind classify.Kind, path nodepath.Path, parentID string, sibIndex, sibTotal int) Node {
	id := path.String()
	key := nodepath.Root
	if len(path) > 0 {
		key = keyOf(path[len(path)-1])
	}
	node := Node{
		ID:            id,
		Key:           key,
		Value:         value,
		Kind:          kind,
		Depth:         len(path),
		ParentID:      parentID,
		Path:          path,
		SiblingIndex:  sibIndex,
		TotalSiblings: sibTotal,
		IsLastChild:   sibIndex == sibTotal-1,
	}
	if kind.IsContainer() {
		node.IsExpandable = len(path) < w.limits.MaxDepth
		node.ChildCount = classify.CountChildren(value, w.limits.MaxItemsPerLevel)
		node.IsExpanded = node.IsExpandable && w.expanded.Has(id)
	}
	return node
}

// keyOf renders a segment as the node's local key, unquoted: field
// names verbatim, indexes in bracket form.
func keyOf(seg nodepath.Segment) string {
	if f, ok := seg.(nodepath.Field); ok {
		return string(f)
	}
	return seg.String()
}
