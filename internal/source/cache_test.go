package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenshq/lens/internal/mutate"
	"github.com/lenshq/lens/internal/nodepath"
)

func mustPath(t *testing.T, s string) nodepath.Path {
	t.Helper()
	p, err := nodepath.Parse(s)
	require.NoError(t, err)
	return p
}

func TestCache_PutGet(t *testing.T) {
	c := NewCache("requests")
	assert.Equal(t, "requests", c.Name())
	assert.Equal(t, 0, c.Len())

	c.Put("req-1", EntryRequest, map[string]any{"status": 200})

	e, ok := c.Get("req-1")
	require.True(t, ok)
	assert.Equal(t, "req-1", e.ID)
	assert.Equal(t, EntryRequest, e.Kind)
	assert.Equal(t, map[string]any{"status": 200}, e.Value)
	assert.False(t, e.UpdatedAt.IsZero())

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Put_LastWriteWins(t *testing.T) {
	c := NewCache("requests")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := 0
	c.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Second)
	}

	c.Put("req-1", EntryRequest, "first")
	c.Put("req-1", EntryMutation, "second")

	e, ok := c.Get("req-1")
	require.True(t, ok)
	assert.Equal(t, "second", e.Value)
	assert.Equal(t, EntryMutation, e.Kind)
	assert.Equal(t, base.Add(2*time.Second), e.UpdatedAt)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Remove(t *testing.T) {
	c := NewCache("requests")
	c.Put("req-1", EntryRequest, 1)
	c.Remove("req-1")
	_, ok := c.Get("req-1")
	assert.False(t, ok)
}

func TestCache_Root(t *testing.T) {
	c := NewCache("requests")
	c.Put("req-1", EntryRequest, map[string]any{"status": 200})
	c.Put("mut-1", EntryMutation, "done")

	root, err := c.Root()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"req-1": map[string]any{"status": 200},
		"mut-1": "done",
	}, root)
}

func TestCache_Set_EditsInsideEntry(t *testing.T) {
	c := NewCache("requests")
	c.Put("req-1", EntryRequest, map[string]any{"status": 200, "body": []any{1, 2}})

	require.NoError(t, c.Set(mustPath(t, "$.'req-1'.status"), 404))
	require.NoError(t, c.Set(mustPath(t, "$.'req-1'.body[0]"), 10))

	e, _ := c.Get("req-1")
	assert.Equal(t, map[string]any{"status": 404, "body": []any{10, 2}}, e.Value)
}

func TestCache_Set_MissingEntry(t *testing.T) {
	c := NewCache("requests")
	err := c.Set(mustPath(t, "$.nope.x"), 1)
	require.Error(t, err)
	assert.True(t, mutate.IsPathNotFound(err))
}

func TestCache_Set_RootPathRejected(t *testing.T) {
	c := NewCache("requests")
	err := c.Set(nodepath.Path{}, 1)
	require.Error(t, err)
	assert.True(t, mutate.IsPathNotFound(err))
}

func TestCache_Delete_WholeEntryAndWithin(t *testing.T) {
	c := NewCache("requests")
	c.Put("req-1", EntryRequest, map[string]any{"status": 200, "drop": true})

	require.NoError(t, c.Delete(mustPath(t, "$.'req-1'.drop")))
	e, _ := c.Get("req-1")
	assert.Equal(t, map[string]any{"status": 200}, e.Value)

	require.NoError(t, c.Delete(mustPath(t, "$.'req-1'")))
	_, ok := c.Get("req-1")
	assert.False(t, ok)
}

func TestCache_Delete_IndexAsEntryKeyRejected(t *testing.T) {
	c := NewCache("requests")
	p := nodepath.Path{nodepath.Index(0)}
	err := c.Delete(p)
	require.Error(t, err)
	assert.True(t, mutate.IsPathNotFound(err))
}
