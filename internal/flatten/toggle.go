package flatten

import (
	"github.com/lenshq/lens/internal/classify"
)

// ToggleExpand flips the expansion of the node with the given id by an
// incremental splice, without re-visiting siblings or unrelated
// subtrees: cost is proportional to the toggled node's child count (on
// expand) or its emitted descendant count (on collapse), never to the
// size of the whole value.
//
// On expand, the node's direct children are computed one level deep
// and spliced immediately after the node; each child starts collapsed,
// which bounds the work regardless of document size. A fresh
// circular guard seeded with the node's own value catches immediate
// self-reference. On collapse, every descendant is removed.
//
// The node's value is re-resolved from root before expanding; if the
// path no longer resolves, or id is absent from nodes (a stale toggle
// target), the sequence is returned unchanged with ok=false.
//
// The input sequence is never mutated; the result is a fresh slice
// that shares no descriptor storage with it.
func ToggleExpand(nodes []Node, id string, root any, limits Limits) (out []Node, ok bool) {
	limits = limits.withDefaults()
	at := -1
	for i := range nodes {
		if nodes[i].ID == id {
			at = i
			break
		}
	}
	if at == -1 {
		return nodes, false
	}
	node := nodes[at]
	if !node.IsExpandable {
		return nodes, false
	}
	if node.IsExpanded {
		return collapse(nodes, at), true
	}
	return expandNode(nodes, at, root, limits)
}

// collapse removes the contiguous descendant run following nodes[at].
// In a valid pre-order sequence the descendants are exactly the nodes
// that follow at a greater depth, up to the first node at the same or
// a shallower depth.
func collapse(nodes []Node, at int) []Node {
	node := nodes[at]
	end := at + 1
	for end < len(nodes) && nodes[end].Depth > node.Depth {
		end++
	}
	out := make([]Node, 0, len(nodes)-(end-at-1))
	out = append(out, nodes[:at]...)
	node.IsExpanded = false
	out = append(out, node)
	out = append(out, nodes[end:]...)
	return out
}

// expandNode splices the direct children of nodes[at] after it.
func expandNode(nodes []Node, at int, root any, limits Limits) ([]Node, bool) {
	node := nodes[at]
	value, resolved := classify.Resolve(root, node.Path)
	if !resolved {
		// The value moved or vanished under us; leave the sequence be.
		return nodes, false
	}

	guard := newCycleGuard()
	guard.Enter(value)
	children := classify.Children(value, limits.MaxItemsPerLevel)
	kids := make([]Node, 0, len(children))
	for i, c := range children {
		path := node.Path.Append(c.Segment)
		kind := classify.Classify(c.Value)
		kid := Node{
			ID:            path.String(),
			Key:           keyOf(c.Segment),
			Value:         c.Value,
			Kind:          kind,
			Depth:         node.Depth + 1,
			ParentID:      node.ID,
			Path:          path,
			SiblingIndex:  i,
			TotalSiblings: len(children),
			IsLastChild:   i == len(children)-1,
		}
		if kind.IsContainer() {
			if guard.Enter(c.Value) {
				kid.Kind = classify.KindCircular
			} else {
				guard.Exit(c.Value)
				kid.IsExpandable = kid.Depth < limits.MaxDepth
				kid.ChildCount = classify.CountChildren(c.Value, limits.MaxItemsPerLevel)
			}
		}
		kids = append(kids, kid)
	}

	out := make([]Node, 0, len(nodes)+len(kids))
	out = append(out, nodes[:at]...)
	node.IsExpanded = true
	out = append(out, node)
	out = append(out, kids...)
	out = append(out, nodes[at+1:]...)
	return out, true
}
