package classify

import (
	"reflect"

	"github.com/lenshq/lens/internal/nodepath"
)

// Resolve follows path from root and returns the addressed value.
// It reports false when the path no longer resolves: a missing key, an
// index out of range, or a non-container met before the path is
// exhausted. Inspected values mutate out-of-band, so an unresolvable
// path is an expected condition, not an error.
func Resolve(root any, path nodepath.Path) (any, bool) {
	cur := reflect.ValueOf(root)
	for _, seg := range path {
		rv, ok := indirect(cur)
		if !ok {
			return nil, false
		}
		next, ok := step(rv, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

// step descends one segment into a fully dereferenced container.
func step(rv reflect.Value, seg nodepath.Segment) (reflect.Value, bool) {
	switch classifyValue(rv) {
	case KindSequence:
		idx, ok := seg.(nodepath.Index)
		if !ok || int(idx) < 0 || int(idx) >= rv.Len() {
			return reflect.Value{}, false
		}
		return rv.Index(int(idx)), true
	case KindRecord:
		f, ok := seg.(nodepath.Field)
		if !ok {
			return reflect.Value{}, false
		}
		sf, found := rv.Type().FieldByName(string(f))
		if !found || !sf.IsExported() {
			return reflect.Value{}, false
		}
		return rv.FieldByIndex(sf.Index), true
	case KindAssoc:
		f, ok := seg.(nodepath.Field)
		if !ok {
			return reflect.Value{}, false
		}
		k, found := FindKey(rv, string(f))
		if !found {
			return reflect.Value{}, false
		}
		return rv.MapIndex(k), true
	case KindSet:
		f, ok := seg.(nodepath.Field)
		if !ok {
			return reflect.Value{}, false
		}
		k, found := FindKey(rv, string(f))
		if !found {
			return reflect.Value{}, false
		}
		return k, true
	default:
		return reflect.Value{}, false
	}
}

// FindKey locates the map key whose rendered form equals rendered.
// Used wherever a Field segment addresses into a map, so that keys of
// any comparable type stay addressable through their string form.
func FindKey(rv reflect.Value, rendered string) (reflect.Value, bool) {
	// Fast path for the overwhelmingly common string-keyed map.
	if rv.Type().Key().Kind() == reflect.String {
		k := reflect.ValueOf(rendered).Convert(rv.Type().Key())
		if rv.MapIndex(k).IsValid() {
			return k, true
		}
		return reflect.Value{}, false
	}
	// Other key types go through the same rendering pipeline the child
	// enumeration uses, so disambiguated forms resolve to the key they
	// were displayed for.
	for _, k := range sortedKeys(rv) {
		if k.rendered == rendered {
			return k.value, true
		}
	}
	return reflect.Value{}, false
}
