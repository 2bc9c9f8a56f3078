package classify

// Kind is the structural category of a value. Exactly one kind applies
// to any value.
type Kind int

const (
	// KindNil covers untyped nil and nil pointers, maps, slices,
	// interfaces, functions and channels.
	KindNil Kind = iota

	// Primitive kinds. None of these are expandable.
	KindBool
	KindInt
	KindUint
	KindFloat
	KindComplex
	KindString
	KindBytes
	KindFunc
	KindChan

	// Recognized leaf types with dedicated rendering.
	KindTime
	KindDuration
	KindError
	KindPattern

	// Container kinds. These are the four shapes the engines know how
	// to descend into.
	KindRecord   // keyed container with a fixed field set (struct)
	KindSequence // indexed sequence (slice or array)
	KindAssoc    // associative collection (map)
	KindSet      // distinct-element collection (map with struct{} elements)

	// KindCircular marks a sentinel node emitted in place of recursing
	// into a container already on the traversal stack. The classifier
	// never returns it; only the flattening engine produces it.
	KindCircular
)

var kindNames = map[Kind]string{
	KindNil:      "nil",
	KindBool:     "bool",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindComplex:  "complex",
	KindString:   "string",
	KindBytes:    "bytes",
	KindFunc:     "func",
	KindChan:     "chan",
	KindTime:     "time",
	KindDuration: "duration",
	KindError:    "error",
	KindPattern:  "pattern",
	KindRecord:   "record",
	KindSequence: "sequence",
	KindAssoc:    "assoc",
	KindSet:      "set",
	KindCircular: "circular",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsContainer reports whether the kind is one of the four container
// shapes the engines descend into.
func (k Kind) IsContainer() bool {
	switch k {
	case KindRecord, KindSequence, KindAssoc, KindSet:
		return true
	}
	return false
}

// IsPrimitive reports whether values of this kind are leaves whose
// textual form can be edited and coerced back.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBool, KindInt, KindUint, KindFloat, KindString:
		return true
	}
	return false
}
