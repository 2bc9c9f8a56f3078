package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/expand"
)

func TestToggleExpand_ExpandSplicesDirectChildren(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, expand.New(), Limits{})

	out, ok := ToggleExpand(nodes, "$", doc, Limits{})
	require.True(t, ok)
	assert.Equal(t, []string{"$", "$.config", "$.users"}, ids(out))
	assert.True(t, out[0].IsExpanded)
	assert.False(t, out[1].IsExpanded, "spliced children start collapsed")
	assert.True(t, out[1].IsExpandable)
}

func TestToggleExpand_MatchesFullFlatten(t *testing.T) {
	doc := sampleDoc()

	// One incremental expand from a collapsed root must agree with a
	// full pass over the same expansion snapshot.
	nodes := Flatten(doc, expand.New(), Limits{})
	incremental, ok := ToggleExpand(nodes, "$", doc, Limits{})
	require.True(t, ok)

	full := Flatten(doc, expand.New("$"), Limits{})
	assert.Equal(t, full, incremental)
}

func TestToggleExpand_CollapseRemovesDescendants(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, ExpandAll{}, Limits{})
	require.Equal(t, []string{"$", "$.config", "$.config.port", "$.users", "$.users[0]"}, ids(nodes))

	out, ok := ToggleExpand(nodes, "$.config", doc, Limits{})
	require.True(t, ok)
	assert.Equal(t, []string{"$", "$.config", "$.users", "$.users[0]"}, ids(out))
	assert.False(t, out[1].IsExpanded)
}

func TestToggleExpand_CollapseRoot(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, ExpandAll{}, Limits{})

	out, ok := ToggleExpand(nodes, "$", doc, Limits{})
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "$", out[0].ID)
	assert.False(t, out[0].IsExpanded)
}

func TestToggleExpand_StaleIDIsNoOp(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, expand.New(), Limits{})

	out, ok := ToggleExpand(nodes, "$.vanished", doc, Limits{})
	assert.False(t, ok)
	assert.Equal(t, nodes, out)
}

func TestToggleExpand_LeafIsNoOp(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, ExpandAll{}, Limits{})

	out, ok := ToggleExpand(nodes, "$.users[0]", doc, Limits{})
	assert.False(t, ok)
	assert.Equal(t, nodes, out)
}

func TestToggleExpand_UnresolvablePathIsNoOp(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, expand.New("$"), Limits{})

	// The root moved underneath the sequence; the node's path no longer
	// resolves.
	replaced := map[string]any{"other": 1}
	out, ok := ToggleExpand(nodes, "$.config", replaced, Limits{})
	assert.False(t, ok)
	assert.Equal(t, nodes, out)
}

func TestToggleExpand_InputNotMutated(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, expand.New(), Limits{})
	before := make([]Node, len(nodes))
	copy(before, nodes)

	_, ok := ToggleExpand(nodes, "$", doc, Limits{})
	require.True(t, ok)
	assert.Equal(t, before, nodes)
}

func TestToggleExpand_SelfReferenceGetsSentinelChild(t *testing.T) {
	doc := map[string]any{}
	doc["self"] = doc

	nodes := Flatten(doc, expand.New(), Limits{})
	out, ok := ToggleExpand(nodes, "$", doc, Limits{})
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, classify.KindCircular, out[1].Kind)
	assert.False(t, out[1].IsExpandable)

	// Agreement with the full pass holds here too.
	full := Flatten(doc, expand.New("$"), Limits{})
	assert.Equal(t, full, out)
}

func TestToggleExpand_DepthCeilingAppliesToSplicedChildren(t *testing.T) {
	doc := map[string]any{"inner": map[string]any{"deep": map[string]any{}}}

	nodes := Flatten(doc, expand.New(), Limits{MaxDepth: 1})
	out, ok := ToggleExpand(nodes, "$", doc, Limits{MaxDepth: 1})
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, "$.inner", out[1].ID)
	assert.False(t, out[1].IsExpandable, "children at the ceiling are not expandable")
}

func TestToggleExpand_ReExpandAfterCollapse(t *testing.T) {
	doc := sampleDoc()
	nodes := Flatten(doc, ExpandAll{}, Limits{})

	collapsed, ok := ToggleExpand(nodes, "$.config", doc, Limits{})
	require.True(t, ok)
	reExpanded, ok := ToggleExpand(collapsed, "$.config", doc, Limits{})
	require.True(t, ok)

	assert.Equal(t, []string{"$", "$.config", "$.config.port", "$.users", "$.users[0]"}, ids(reExpanded))
}
