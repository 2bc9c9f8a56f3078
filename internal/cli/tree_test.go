package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/flatten"
)

const sampleJSON = `{"config": {"port": 8080}, "users": ["amy"]}`

func TestRunTree_Text(t *testing.T) {
	path := writeFile(t, "doc.json", sampleJSON)
	buf := &bytes.Buffer{}

	err := runTree(buf, &RootOptions{Format: "text"}, &TreeOptions{ExpandAll: true}, path)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "$: {2 keys}")
	assert.Contains(t, out, "├─ config: {1 keys}")
	assert.Contains(t, out, "└─ users: [1 items]")
	assert.Contains(t, out, "└─ port: 8080")
}

func TestRunTree_JSON(t *testing.T) {
	path := writeFile(t, "doc.json", sampleJSON)
	buf := &bytes.Buffer{}

	err := runTree(buf, &RootOptions{Format: "json"}, &TreeOptions{ExpandAll: true}, path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	views, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, views, 5)

	first, ok := views[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "$", first["id"])
	assert.Equal(t, "assoc", first["kind"])
}

func TestRunTree_ExplicitExpansion(t *testing.T) {
	path := writeFile(t, "doc.json", sampleJSON)
	buf := &bytes.Buffer{}

	opts := &TreeOptions{Expand: []string{"$"}}
	err := runTree(buf, &RootOptions{Format: "json"}, opts, path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	views := resp.Data.([]any)
	assert.Len(t, views, 3, "one expanded level: root plus two children")
}

func TestRunTree_LimitFlags(t *testing.T) {
	path := writeFile(t, "doc.json", `{"a": {"b": {"c": {"d": 1}}}}`)
	buf := &bytes.Buffer{}

	opts := &TreeOptions{ExpandAll: true, MaxDepth: 2}
	err := runTree(buf, &RootOptions{Format: "json"}, opts, path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	for _, v := range resp.Data.([]any) {
		depth := v.(map[string]any)["depth"].(float64)
		assert.LessOrEqual(t, depth, float64(2))
	}
}

func TestTreeLimits_ConfigFileMergedUnderFlags(t *testing.T) {
	cfgPath := writeFile(t, "lens.cue", "limits: {max_depth: 3, max_items_per_level: 9}\n")

	limits, err := treeLimits(&TreeOptions{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.Equal(t, flatten.Limits{MaxDepth: 3, MaxItemsPerLevel: 9}, limits)

	// Explicit flags win over the config file.
	limits, err = treeLimits(&TreeOptions{ConfigPath: cfgPath, MaxDepth: 7})
	require.NoError(t, err)
	assert.Equal(t, flatten.Limits{MaxDepth: 7, MaxItemsPerLevel: 9}, limits)
}

func TestValueSummary(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  classify.Kind
		want  string
	}{
		{"string", "hi", classify.KindString, `"hi"`},
		{"int", 42, classify.KindInt, "42"},
		{"nil", nil, classify.KindNil, "null"},
		{"circular", nil, classify.KindCircular, "(circular)"},
		{"sequence", []any{1, 2}, classify.KindSequence, "[2 items]"},
		{"assoc", map[string]any{"a": 1}, classify.KindAssoc, "{1 keys}"},
		{"set", map[string]struct{}{"a": {}}, classify.KindSet, "{1 elements}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueSummary(tt.value, tt.kind))
		})
	}
}
