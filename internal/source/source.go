package source

import "github.com/lenshq/lens/internal/nodepath"

// Source is one inspectable data set. Root returns a snapshot value
// whose first path level is the entry key; Set and Delete apply a
// path-addressed edit back into the underlying store, treating the
// mutation and the store write as one logical step.
type Source interface {
	// Name identifies the source in the inspector.
	Name() string

	// Root returns the current root value for flattening.
	Root() (any, error)

	// Set replaces the value at path with newValue and persists.
	Set(path nodepath.Path, newValue any) error

	// Delete removes the node at path and persists.
	Delete(path nodepath.Path) error
}
