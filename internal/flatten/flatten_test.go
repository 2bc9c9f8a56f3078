package flatten

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/expand"
)

func sampleDoc() map[string]any {
	return map[string]any{
		"config": map[string]any{"port": 8080},
		"users":  []any{"amy"},
	}
}

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestFlatten_CollapsedRootEmitsSingleNode(t *testing.T) {
	nodes := Flatten(sampleDoc(), expand.New(), Limits{})
	require.Len(t, nodes, 1)

	root := nodes[0]
	assert.Equal(t, "$", root.ID)
	assert.Equal(t, "$", root.Key)
	assert.Equal(t, classify.KindAssoc, root.Kind)
	assert.Equal(t, 0, root.Depth)
	assert.True(t, root.IsExpandable)
	assert.False(t, root.IsExpanded)
	assert.Equal(t, 2, root.ChildCount)
	assert.Empty(t, root.ParentID)
}

func TestFlatten_FullExpansion_PreOrder(t *testing.T) {
	nodes := Flatten(sampleDoc(), ExpandAll{}, Limits{})
	assert.Equal(t, []string{"$", "$.config", "$.config.port", "$.users", "$.users[0]"}, ids(nodes))
}

func TestFlatten_PreOrderInvariants(t *testing.T) {
	nodes := Flatten(sampleDoc(), ExpandAll{}, Limits{})
	require.NotEmpty(t, nodes)

	emitted := map[string]Node{}
	for i, n := range nodes {
		if i == 0 {
			assert.Equal(t, 0, n.Depth)
			assert.Empty(t, n.ParentID)
		} else {
			// Every non-root node appears after its parent, one level
			// deeper.
			parent, seen := emitted[n.ParentID]
			require.True(t, seen, "node %s emitted before parent %s", n.ID, n.ParentID)
			assert.Equal(t, parent.Depth+1, n.Depth)
		}
		emitted[n.ID] = n
	}
}

func TestFlatten_SiblingMetadata(t *testing.T) {
	nodes := Flatten(sampleDoc(), ExpandAll{}, Limits{})
	byID := map[string]Node{}
	for _, n := range nodes {
		byID[n.ID] = n
	}

	config := byID["$.config"]
	assert.Equal(t, 0, config.SiblingIndex)
	assert.Equal(t, 2, config.TotalSiblings)
	assert.False(t, config.IsLastChild)

	users := byID["$.users"]
	assert.Equal(t, 1, users.SiblingIndex)
	assert.Equal(t, 2, users.TotalSiblings)
	assert.True(t, users.IsLastChild)

	only := byID["$.users[0]"]
	assert.Equal(t, "[0]", only.Key)
	assert.Equal(t, 1, only.TotalSiblings)
	assert.True(t, only.IsLastChild)
}

func TestFlatten_ExpansionSnapshotRespected(t *testing.T) {
	nodes := Flatten(sampleDoc(), expand.New("$"), Limits{})
	assert.Equal(t, []string{"$", "$.config", "$.users"}, ids(nodes))

	byID := map[string]Node{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	assert.True(t, byID["$"].IsExpanded)
	assert.False(t, byID["$.config"].IsExpanded, "children start collapsed")
	assert.True(t, byID["$.config"].IsExpandable)
}

func TestFlatten_DepthCeiling(t *testing.T) {
	// A chain deeper than the ceiling: $.down.down.down...
	doc := map[string]any{"leaf": true}
	for i := 0; i < 12; i++ {
		doc = map[string]any{"down": doc}
	}

	nodes := Flatten(doc, ExpandAll{}, Limits{MaxDepth: 3})
	for _, n := range nodes {
		assert.LessOrEqual(t, n.Depth, 3, "node %s exceeds the ceiling", n.ID)
		if n.Depth == 3 {
			assert.False(t, n.IsExpandable, "node %s at the ceiling must not be expandable", n.ID)
			assert.False(t, n.IsExpanded)
		}
	}
	// Depths 0..3 inclusive, one node per level.
	assert.Len(t, nodes, 4)
}

func TestFlatten_WidthCeiling(t *testing.T) {
	seq := make([]any, 30)
	for i := range seq {
		seq[i] = i
	}

	nodes := Flatten(seq, ExpandAll{}, Limits{MaxItemsPerLevel: 5})
	require.Len(t, nodes, 6) // root plus five children
	assert.Equal(t, 5, nodes[0].ChildCount, "child count reports the capped value")
	assert.Equal(t, "$[4]", nodes[len(nodes)-1].ID)
}

func TestFlatten_CircularMap_EmitsSentinel(t *testing.T) {
	doc := map[string]any{}
	doc["self"] = doc

	nodes := Flatten(doc, ExpandAll{}, Limits{})
	require.Len(t, nodes, 2)

	sentinel := nodes[1]
	assert.Equal(t, "$.self", sentinel.ID)
	assert.Equal(t, classify.KindCircular, sentinel.Kind)
	assert.False(t, sentinel.IsExpandable)
	assert.False(t, sentinel.IsExpanded)
	assert.Equal(t, 0, sentinel.ChildCount)
}

func TestFlatten_SelfReferentialRecord_BoundedOutput(t *testing.T) {
	type loop struct {
		Self *loop
		Name string
	}
	root := &loop{Name: "n"}
	root.Self = root

	// Even with everything expanded and a deep ceiling, the guard stops
	// the traversal at the first recurrence.
	nodes := Flatten(root, ExpandAll{}, Limits{MaxDepth: 10})
	assert.Equal(t, []string{"$", "$.Self", "$.Name"}, ids(nodes))
	assert.Equal(t, classify.KindCircular, nodes[1].Kind)
}

func TestFlatten_SharedAcyclicValueIsNotCircular(t *testing.T) {
	shared := map[string]any{"k": 1}
	doc := map[string]any{"a": shared, "b": shared}

	nodes := Flatten(doc, ExpandAll{}, Limits{})
	// The same map reached through two siblings is a DAG, not a cycle:
	// the guard unmarks on backtrack, so both render in full.
	assert.Equal(t, []string{"$", "$.a", "$.a.k", "$.b", "$.b.k"}, ids(nodes))
	for _, n := range nodes {
		assert.NotEqual(t, classify.KindCircular, n.Kind, "node %s", n.ID)
	}
}

func TestFlatten_IndirectCycle(t *testing.T) {
	a := map[string]any{}
	b := map[string]any{"back": a}
	a["fwd"] = b

	nodes := Flatten(a, ExpandAll{}, Limits{})
	assert.Equal(t, []string{"$", "$.fwd", "$.fwd.back"}, ids(nodes))
	assert.Equal(t, classify.KindCircular, nodes[2].Kind)
}

func TestFlatten_MixedTypeKeysKeepUniqueIDs(t *testing.T) {
	doc := map[any]any{
		1:   map[string]any{"a": 1},
		"1": []any{2},
	}

	nodes := Flatten(doc, ExpandAll{}, Limits{})
	assert.Equal(t, []string{
		"$",
		"$.1#int",
		"$.1#int.a",
		"$.1#string",
		"$.1#string[0]",
	}, ids(nodes))

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	doc := map[string]any{}
	for i := 0; i < 20; i++ {
		doc[fmt.Sprintf("key-%02d", i)] = []any{i, fmt.Sprintf("v%d", i)}
	}

	first := Flatten(doc, ExpandAll{}, Limits{})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Flatten(doc, ExpandAll{}, Limits{}))
	}
}

func TestFlatten_NonContainerRoot(t *testing.T) {
	nodes := Flatten(42, ExpandAll{}, Limits{})
	require.Len(t, nodes, 1)
	assert.Equal(t, classify.KindInt, nodes[0].Kind)
	assert.False(t, nodes[0].IsExpandable)
}

func TestLimits_WithDefaults(t *testing.T) {
	l := Limits{}.withDefaults()
	assert.Equal(t, DefaultMaxDepth, l.MaxDepth)
	assert.Equal(t, DefaultMaxItemsPerLevel, l.MaxItemsPerLevel)

	l = Limits{MaxDepth: 3, MaxItemsPerLevel: 7}.withDefaults()
	assert.Equal(t, 3, l.MaxDepth)
	assert.Equal(t, 7, l.MaxItemsPerLevel)
}
