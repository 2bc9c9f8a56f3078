package classify

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lenshq/lens/internal/nodepath"
)

// Entry is one direct child of a container: the segment that addresses
// it under its parent plus the child value itself. The value is a
// reference into the parent, not a copy.
type Entry struct {
	Segment nodepath.Segment
	Value   any
}

// Children enumerates the direct children of v in the canonical order
// for its kind, emitting at most max entries. Excess children are
// silently truncated; truncation is a safety valve, not an error.
//
// Ordering per kind:
//   - sequence: position order
//   - record: field declaration order (unexported fields skipped)
//   - assoc, set: sorted key order (Go maps carry no insertion order,
//     so a deterministic order is substituted; string keys compare in
//     NFC-normalized form, and keys of different types that render
//     alike are tagged with their type name)
//
// Non-container values yield no children.
func Children(v any, max int) []Entry {
	if max <= 0 {
		return nil
	}
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return nil
	}
	switch classifyValue(rv) {
	case KindSequence:
		return sequenceChildren(rv, max)
	case KindRecord:
		return recordChildren(rv, max)
	case KindAssoc:
		return assocChildren(rv, max)
	case KindSet:
		return setChildren(rv, max)
	default:
		return nil
	}
}

// CountChildren returns the number of direct children of v, capped at
// max. It avoids materializing entries for wide containers.
func CountChildren(v any, max int) int {
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return 0
	}
	var n int
	switch classifyValue(rv) {
	case KindSequence:
		n = rv.Len()
	case KindAssoc, KindSet:
		n = rv.Len()
	case KindRecord:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				n++
			}
		}
	default:
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func sequenceChildren(rv reflect.Value, max int) []Entry {
	n := rv.Len()
	if n > max {
		n = max
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Entry{
			Segment: nodepath.Index(i),
			Value:   rv.Index(i).Interface(),
		})
	}
	return out
}

func recordChildren(rv reflect.Value, max int) []Entry {
	t := rv.Type()
	out := make([]Entry, 0, t.NumField())
	for i := 0; i < t.NumField() && len(out) < max; i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		out = append(out, Entry{
			Segment: nodepath.Field(f.Name),
			Value:   rv.Field(i).Interface(),
		})
	}
	return out
}

func assocChildren(rv reflect.Value, max int) []Entry {
	keys := sortedKeys(rv)
	if len(keys) > max {
		keys = keys[:max]
	}
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{
			Segment: nodepath.Field(k.rendered),
			Value:   rv.MapIndex(k.value).Interface(),
		})
	}
	return out
}

func setChildren(rv reflect.Value, max int) []Entry {
	keys := sortedKeys(rv)
	if len(keys) > max {
		keys = keys[:max]
	}
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		// A set member's child value is the element itself.
		out = append(out, Entry{
			Segment: nodepath.Field(k.rendered),
			Value:   k.value.Interface(),
		})
	}
	return out
}

type mapKey struct {
	rendered string
	value    reflect.Value
}

// sortedKeys renders and orders map keys deterministically. Keys of
// different dynamic types can render to the same string (1 and "1" in
// an interface-keyed map); colliding renderings get a type tag so each
// key keeps a unique address under its parent.
func sortedKeys(rv reflect.Value) []mapKey {
	keys := make([]mapKey, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		keys = append(keys, mapKey{rendered: KeyString(k.Interface()), value: k})
	}
	slices.SortFunc(keys, func(a, b mapKey) int {
		if c := strings.Compare(norm.NFC.String(a.rendered), norm.NFC.String(b.rendered)); c != 0 {
			return c
		}
		return strings.Compare(keyTypeName(a.value), keyTypeName(b.value))
	})
	disambiguate(keys)
	return keys
}

// disambiguate rewrites colliding rendered forms in place. The slice
// is sorted on the rendered form, so collisions sit in adjacent runs.
func disambiguate(keys []mapKey) {
	for i := 0; i < len(keys); {
		j := i + 1
		for j < len(keys) && keys[j].rendered == keys[i].rendered {
			j++
		}
		if j-i > 1 {
			for k := i; k < j; k++ {
				keys[k].rendered += "#" + keyTypeName(keys[k].value)
			}
			// Same type and same rendering (NaN float keys); fall back
			// to an ordinal.
			seen := make(map[string]int, j-i)
			for k := i; k < j; k++ {
				seen[keys[k].rendered]++
				if n := seen[keys[k].rendered]; n > 1 {
					keys[k].rendered = fmt.Sprintf("%s#%d", keys[k].rendered, n)
				}
			}
		}
		i = j
	}
}

// keyTypeName names the dynamic type of a map key.
func keyTypeName(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "nil"
		}
		k = k.Elem()
	}
	return k.Type().String()
}

// KeyString renders a map key or set element as the string used in
// paths and node ids. String keys are used verbatim; everything else
// goes through fmt.
func KeyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}
