// Package mutate applies path-addressed edits to in-memory values,
// producing a new root and never modifying the input in place.
//
// Both operations copy-on-write along the path only: each container on
// the walk is shallow-copied with the addressed child replaced, and
// every untouched subtree is shared with the input. The engine does no
// type inference: a replacement value is trusted to already carry the
// type the caller coerced it to.
package mutate

import (
	"reflect"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/nodepath"
)

// SetAtPath returns a new root equal to root with exactly the node at
// path replaced by newValue. An empty path replaces the root itself.
// A final key absent from an associative or distinct-element collection
// is inserted, so a delete followed by a set at the same path restores
// the entry. A path broken earlier than its final segment yields
// ErrCodePathNotFound; a replacement value the addressed slot cannot
// hold yields ErrCodeTypeMismatch.
func SetAtPath(root any, path nodepath.Path, newValue any) (any, error) {
	if len(path) == 0 {
		return newValue, nil
	}
	e := &edit{kind: editSet, newValue: reflect.ValueOf(newValue), full: path}
	res, err := e.apply(reflect.ValueOf(root), path)
	if err != nil {
		return nil, err
	}
	return res.Interface(), nil
}

// DeleteAtPath returns a new root equal to root with the node at path
// removed: sequences shift subsequent elements left, associative and
// distinct-element collections drop the entry, and record fields reset
// to their zero value (a record's field set is fixed). The root itself
// cannot be deleted.
func DeleteAtPath(root any, path nodepath.Path) (any, error) {
	if len(path) == 0 {
		return nil, notFound(path, "cannot delete the root")
	}
	e := &edit{kind: editDelete, full: path}
	res, err := e.apply(reflect.ValueOf(root), path)
	if err != nil {
		return nil, err
	}
	return res.Interface(), nil
}

type editKind int

const (
	editSet editKind = iota
	editDelete
)

type edit struct {
	kind     editKind
	newValue reflect.Value
	full     nodepath.Path
}

// apply rebuilds rv with the edit applied under path, returning the
// replacement for rv's position. Deletions are handled by the parent
// container frame, so apply is never entered with an empty path in
// delete mode.
func (e *edit) apply(rv reflect.Value, path nodepath.Path) (reflect.Value, error) {
	if !rv.IsValid() {
		return reflect.Value{}, notFound(e.full, "nil encountered before path end")
	}
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return reflect.Value{}, notFound(e.full, "nil encountered before path end")
		}
		return e.apply(rv.Elem(), path)
	case reflect.Pointer:
		if rv.IsNil() {
			return reflect.Value{}, notFound(e.full, "nil encountered before path end")
		}
		res, err := e.apply(rv.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		np := reflect.New(rv.Type().Elem())
		fitted, ok := fit(res, np.Type().Elem())
		if !ok {
			return reflect.Value{}, mismatch(e.full, "%s is not assignable through *%s", typeName(res), np.Type().Elem())
		}
		np.Elem().Set(fitted)
		return np, nil
	}
	if len(path) == 0 {
		return e.newValue, nil
	}

	seg := path[0]
	rest := path[1:]
	finalDelete := e.kind == editDelete && len(rest) == 0

	switch classify.Classify(rv.Interface()) {
	case classify.KindSequence:
		return e.applySequence(rv, seg, rest, finalDelete)
	case classify.KindRecord:
		return e.applyRecord(rv, seg, rest, finalDelete)
	case classify.KindAssoc:
		return e.applyAssoc(rv, seg, rest, finalDelete)
	case classify.KindSet:
		return e.applySet(rv, seg, rest, finalDelete)
	default:
		return reflect.Value{}, notFound(e.full, "%s is not a container", rv.Type())
	}
}

func (e *edit) applySequence(rv reflect.Value, seg nodepath.Segment, rest nodepath.Path, finalDelete bool) (reflect.Value, error) {
	idx, ok := seg.(nodepath.Index)
	if !ok {
		return reflect.Value{}, notFound(e.full, "sequence addressed by field %s", seg)
	}
	i := int(idx)
	if i < 0 || i >= rv.Len() {
		return reflect.Value{}, notFound(e.full, "index %d out of range (len %d)", i, rv.Len())
	}
	t := rv.Type()

	if finalDelete {
		if t.Kind() == reflect.Array {
			return reflect.Value{}, mismatch(e.full, "cannot delete from fixed-size array %s", t)
		}
		// Removing an element shifts the tail left; no holes.
		ns := reflect.MakeSlice(t, rv.Len()-1, rv.Len()-1)
		reflect.Copy(ns, rv.Slice(0, i))
		reflect.Copy(ns.Slice(i, ns.Len()), rv.Slice(i+1, rv.Len()))
		return ns, nil
	}

	res, err := e.apply(rv.Index(i), rest)
	if err != nil {
		return reflect.Value{}, err
	}
	fitted, ok := fit(res, t.Elem())
	if !ok {
		return reflect.Value{}, mismatch(e.full, "%s is not assignable to element type %s", typeName(res), t.Elem())
	}
	var ns reflect.Value
	if t.Kind() == reflect.Array {
		ns = reflect.New(t).Elem()
		ns.Set(rv)
	} else {
		ns = reflect.MakeSlice(t, rv.Len(), rv.Len())
		reflect.Copy(ns, rv)
	}
	ns.Index(i).Set(fitted)
	return ns, nil
}

func (e *edit) applyRecord(rv reflect.Value, seg nodepath.Segment, rest nodepath.Path, finalDelete bool) (reflect.Value, error) {
	f, ok := seg.(nodepath.Field)
	if !ok {
		return reflect.Value{}, notFound(e.full, "record addressed by index %s", seg)
	}
	t := rv.Type()
	sf, found := t.FieldByName(string(f))
	if !found || !sf.IsExported() {
		return reflect.Value{}, notFound(e.full, "no field %q in %s", string(f), t)
	}

	ns := reflect.New(t).Elem()
	ns.Set(rv)
	slot := ns.FieldByIndex(sf.Index)

	if finalDelete {
		// Records have a fixed field set; delete resets to zero.
		slot.Set(reflect.Zero(sf.Type))
		return ns, nil
	}
	res, err := e.apply(rv.FieldByIndex(sf.Index), rest)
	if err != nil {
		return reflect.Value{}, err
	}
	fitted, ok := fit(res, sf.Type)
	if !ok {
		return reflect.Value{}, mismatch(e.full, "%s is not assignable to field %s %s", typeName(res), sf.Name, sf.Type)
	}
	slot.Set(fitted)
	return ns, nil
}

func (e *edit) applyAssoc(rv reflect.Value, seg nodepath.Segment, rest nodepath.Path, finalDelete bool) (reflect.Value, error) {
	f, ok := seg.(nodepath.Field)
	if !ok {
		return reflect.Value{}, notFound(e.full, "assoc addressed by index %s", seg)
	}
	t := rv.Type()
	k, found := classify.FindKey(rv, string(f))
	if !found {
		if e.kind != editSet || len(rest) > 0 {
			return reflect.Value{}, notFound(e.full, "no key %q", string(f))
		}
		// A missing final key on set inserts the entry.
		key, ok := keyFromString(t.Key(), string(f))
		if !ok {
			return reflect.Value{}, mismatch(e.full, "cannot address a new %s key as %q", t.Key(), string(f))
		}
		fitted, ok := fit(e.newValue, t.Elem())
		if !ok {
			return reflect.Value{}, mismatch(e.full, "%s is not assignable to value type %s", typeName(e.newValue), t.Elem())
		}
		nm := copyMap(rv)
		nm.SetMapIndex(key, fitted)
		return nm, nil
	}

	nm := reflect.MakeMapWithSize(t, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if iter.Key().Interface() == k.Interface() {
			continue
		}
		nm.SetMapIndex(iter.Key(), iter.Value())
	}
	if finalDelete {
		return nm, nil
	}
	res, err := e.apply(rv.MapIndex(k), rest)
	if err != nil {
		return reflect.Value{}, err
	}
	fitted, ok := fit(res, t.Elem())
	if !ok {
		return reflect.Value{}, mismatch(e.full, "%s is not assignable to value type %s", typeName(res), t.Elem())
	}
	nm.SetMapIndex(k, fitted)
	return nm, nil
}

func (e *edit) applySet(rv reflect.Value, seg nodepath.Segment, rest nodepath.Path, finalDelete bool) (reflect.Value, error) {
	f, ok := seg.(nodepath.Field)
	if !ok {
		return reflect.Value{}, notFound(e.full, "set addressed by index %s", seg)
	}
	t := rv.Type()
	k, found := classify.FindKey(rv, string(f))
	if !found {
		if e.kind != editSet || len(rest) > 0 {
			return reflect.Value{}, notFound(e.full, "no element %q", string(f))
		}
		// A missing final member on set inserts the element.
		fitted, ok := fit(e.newValue, t.Key())
		if !ok {
			return reflect.Value{}, mismatch(e.full, "%s is not assignable to element type %s", typeName(e.newValue), t.Key())
		}
		nm := copyMap(rv)
		nm.SetMapIndex(fitted, reflect.New(t.Elem()).Elem())
		return nm, nil
	}

	nm := reflect.MakeMapWithSize(t, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if iter.Key().Interface() == k.Interface() {
			continue
		}
		nm.SetMapIndex(iter.Key(), iter.Value())
	}
	if finalDelete {
		return nm, nil
	}
	// A set member's value is the element itself, so an edit replaces
	// the element.
	res, err := e.apply(k, rest)
	if err != nil {
		return reflect.Value{}, err
	}
	fitted, ok := fit(res, t.Key())
	if !ok {
		return reflect.Value{}, mismatch(e.full, "%s is not assignable to element type %s", typeName(res), t.Key())
	}
	nm.SetMapIndex(fitted, reflect.New(t.Elem()).Elem())
	return nm, nil
}

// copyMap shallow-copies every entry of a map into a fresh map of the
// same type.
func copyMap(rv reflect.Value) reflect.Value {
	nm := reflect.MakeMapWithSize(rv.Type(), rv.Len()+1)
	iter := rv.MapRange()
	for iter.Next() {
		nm.SetMapIndex(iter.Key(), iter.Value())
	}
	return nm
}

// keyFromString materializes a map key of type keyType from its
// rendered path form. Only string-shaped and interface key types can
// round-trip; other key types cannot absorb a new entry by name.
func keyFromString(keyType reflect.Type, name string) (reflect.Value, bool) {
	rv := reflect.ValueOf(name)
	if rv.Type().AssignableTo(keyType) {
		return rv, true
	}
	if keyType.Kind() == reflect.String {
		return rv.Convert(keyType), true
	}
	return reflect.Value{}, false
}

// fit adapts res to a slot of type slot: direct assignment when
// assignable, the slot's zero value when res is an untyped nil and the
// slot is nilable. Reports false when the slot cannot hold res.
func fit(res reflect.Value, slot reflect.Type) (reflect.Value, bool) {
	if !res.IsValid() {
		switch slot.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(slot), true
		default:
			return reflect.Value{}, false
		}
	}
	if res.Type().AssignableTo(slot) {
		return res, true
	}
	return reflect.Value{}, false
}

func typeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}
