package classify

import (
	"reflect"
	"regexp"
	"time"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	emptyStruct  = reflect.TypeOf(struct{}{})
)

// Classify returns the structural kind of v. Pointers and interfaces
// are dereferenced transparently; nil at any level of indirection
// classifies as KindNil.
func Classify(v any) Kind {
	if v == nil {
		return KindNil
	}
	switch v.(type) {
	case *regexp.Regexp:
		if v.(*regexp.Regexp) == nil {
			return KindNil
		}
		return KindPattern
	case time.Time, *time.Time:
		return classifyTime(v)
	case time.Duration:
		return KindDuration
	}
	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return KindNil
	}
	// Pointer-receiver error implementations would be lost after
	// dereferencing, so check the original value first.
	if _, isErr := v.(error); isErr {
		return KindError
	}
	return classifyValue(rv)
}

func classifyTime(v any) Kind {
	if p, ok := v.(*time.Time); ok && p == nil {
		return KindNil
	}
	return KindTime
}

// classifyValue categorizes a fully dereferenced reflect value.
func classifyValue(rv reflect.Value) Kind {
	t := rv.Type()
	switch t {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	}
	if t.Implements(errorType) {
		return KindError
	}
	switch rv.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Complex64, reflect.Complex128:
		return KindComplex
	case reflect.String:
		return KindString
	case reflect.Func:
		return KindFunc
	case reflect.Chan:
		return KindChan
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
		return KindSequence
	case reflect.Map:
		if t.Elem() == emptyStruct {
			return KindSet
		}
		return KindAssoc
	case reflect.Struct:
		return KindRecord
	default:
		// Anything else (unsafe pointers, etc.) degrades to an opaque
		// string rendering.
		return KindString
	}
}

// indirect strips pointer and interface indirection. The second return
// is false when the chain bottoms out in nil or in a nil-valued
// nilable kind (map, slice, func, chan).
func indirect(rv reflect.Value) (reflect.Value, bool) {
	for {
		if !rv.IsValid() {
			return rv, false
		}
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return rv, false
			}
			rv = rv.Elem()
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return rv, false
			}
			return rv, true
		default:
			return rv, true
		}
	}
}
