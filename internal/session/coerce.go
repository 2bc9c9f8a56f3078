package session

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/lenshq/lens/internal/classify"
)

// CoerceLeaf converts a raw string from a text-entry surface into a
// value of the leaf's previous kind. The mutation engine does no type
// inference of its own; this is the caller-side coercion step it
// expects to have happened already.
func CoerceLeaf(prev classify.Kind, raw string) (any, error) {
	switch prev {
	case classify.KindString:
		return raw, nil
	case classify.KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to bool: %w", raw, err)
		}
		return v, nil
	case classify.KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to int: %w", raw, err)
		}
		return v, nil
	case classify.KindUint:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to uint: %w", raw, err)
		}
		return v, nil
	case classify.KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to float: %w", raw, err)
		}
		return v, nil
	case classify.KindTime:
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to time: %w", raw, err)
		}
		return v, nil
	case classify.KindDuration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to duration: %w", raw, err)
		}
		return v, nil
	case classify.KindNil:
		// Editing a nil leaf: the raw string decides the new kind.
		return inferLeaf(raw), nil
	default:
		return nil, fmt.Errorf("kind %s is not an editable leaf", prev)
	}
}

// CoerceLike converts raw to the exact dynamic type of prev, so the
// result stays assignable in typed containers (an int field takes an
// int back, not an int64). Falls back to kind-level coercion when prev
// is untyped.
func CoerceLike(prev any, raw string) (any, error) {
	kind := classify.Classify(prev)
	v, err := CoerceLeaf(kind, raw)
	if err != nil {
		return nil, err
	}
	if prev == nil || v == nil {
		return v, nil
	}
	pt := reflect.TypeOf(prev)
	rv := reflect.ValueOf(v)
	if rv.Type() == pt {
		return v, nil
	}
	if rv.Type().ConvertibleTo(pt) {
		return rv.Convert(pt).Interface(), nil
	}
	return v, nil
}

// inferLeaf guesses the most specific primitive for a raw string.
func inferLeaf(raw string) any {
	if raw == "null" || raw == "" {
		return nil
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}
