package source

import (
	"sync"
	"time"

	"github.com/lenshq/lens/internal/mutate"
	"github.com/lenshq/lens/internal/nodepath"
)

// EntryKind distinguishes what a cache entry snapshots.
type EntryKind string

const (
	// EntryRequest is a cached request result.
	EntryRequest EntryKind = "request"

	// EntryMutation is a cached mutation result.
	EntryMutation EntryKind = "mutation"
)

// Entry is one cached snapshot.
type Entry struct {
	ID        string
	Kind      EntryKind
	UpdatedAt time.Time
	Value     any
}

// Cache is an in-memory source over cached request and mutation
// snapshots. Writes are last-write-wins; edits replace whole entry
// values immutably via the mutation engine.
type Cache struct {
	name string

	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

var _ Source = (*Cache)(nil)

// NewCache creates an empty cache source.
func NewCache(name string) *Cache {
	return &Cache{
		name:    name,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Name implements Source.
func (c *Cache) Name() string { return c.name }

// Put stores or replaces an entry value.
func (c *Cache) Put(id string, kind EntryKind, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = Entry{ID: id, Kind: kind, UpdatedAt: c.now(), Value: value}
}

// Get returns the entry for id.
func (c *Cache) Get(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

// Remove drops the entry for id.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Root implements Source: a map of entry id to entry value. The
// flattening engine renders map keys in sorted order, so the view is
// deterministic.
func (c *Cache) Root() (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	root := make(map[string]any, len(c.entries))
	for id, e := range c.entries {
		root[id] = e.Value
	}
	return root, nil
}

// Set implements Source. The first segment names the entry; the rest
// addresses into its value.
func (c *Cache) Set(path nodepath.Path, newValue any) error {
	id, rest, err := splitEntry(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return entryNotFound(path, id)
	}
	next, err := mutate.SetAtPath(e.Value, rest, newValue)
	if err != nil {
		return err
	}
	e.Value = next
	e.UpdatedAt = c.now()
	c.entries[id] = e
	return nil
}

// Delete implements Source. Deleting an entire entry removes it from
// the cache; deeper paths edit within the entry value.
func (c *Cache) Delete(path nodepath.Path) error {
	id, rest, err := splitEntry(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return entryNotFound(path, id)
	}
	if len(rest) == 0 {
		delete(c.entries, id)
		return nil
	}
	next, err := mutate.DeleteAtPath(e.Value, rest)
	if err != nil {
		return err
	}
	e.Value = next
	e.UpdatedAt = c.now()
	c.entries[id] = e
	return nil
}

// splitEntry peels the entry key off the front of a source path.
func splitEntry(path nodepath.Path) (id string, rest nodepath.Path, err error) {
	if len(path) == 0 {
		return "", nil, &mutate.MutateError{
			Code:    mutate.ErrCodePathNotFound,
			Path:    path.String(),
			Message: "source paths start with an entry key",
		}
	}
	f, ok := path[0].(nodepath.Field)
	if !ok {
		return "", nil, &mutate.MutateError{
			Code:    mutate.ErrCodePathNotFound,
			Path:    path.String(),
			Message: "entry key must be a field segment",
		}
	}
	return string(f), path[1:], nil
}

func entryNotFound(path nodepath.Path, id string) error {
	return &mutate.MutateError{
		Code:    mutate.ErrCodePathNotFound,
		Path:    path.String(),
		Message: "no entry " + id,
	}
}
