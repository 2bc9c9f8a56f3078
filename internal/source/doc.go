// Package source adapts the data an inspector looks at, cached
// request/mutation snapshots and persisted key/value entries, to a
// common shape: a root value the flattening engine can walk, plus
// write-back entry points that route edits through the mutation engine.
//
// Sources are pull-only. Concurrent edits to the same root are not
// arbitrated: last write wins.
package source
