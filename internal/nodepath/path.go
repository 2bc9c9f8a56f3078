package nodepath

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a sealed interface over the two segment variants.
// Only Field and Index implement it.
type Segment interface {
	segment() // Sealed - only Field and Index implement it
	String() string
}

// Field addresses a named child: a record field, an associative
// collection key, or a distinct-element collection member (by its
// rendered element string).
type Field string

func (Field) segment() {}

// String returns the display form of the field, quoted if the name
// contains separator characters or is empty.
func (f Field) String() string {
	s := string(f)
	if s != "" && !strings.ContainsAny(s, reservedChars) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

// Index addresses a position in an indexed sequence.
type Index int

func (Index) segment() {}

// String returns the display form of the index, e.g. "[3]".
func (i Index) String() string {
	return "[" + strconv.Itoa(int(i)) + "]"
}

// reservedChars are the characters that force a field name into
// quoted form. Quoting keeps String/Parse a lossless round trip for
// keys that themselves contain the separator.
const reservedChars = ".'[]$"

// Root is the display string of the empty path.
const Root = "$"

// Path is an ordered sequence of segments from the root to a node.
// The empty path addresses the root itself.
type Path []Segment

// String renders the canonical display string: "$" followed by
// ".field" and "[index]" fragments.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(Root)
	for _, seg := range p {
		switch s := seg.(type) {
		case Field:
			b.WriteByte('.')
			b.WriteString(s.String())
		case Index:
			b.WriteString(s.String())
		}
	}
	return b.String()
}

// Append returns a new path with seg appended. The receiver is never
// modified; the result does not alias the receiver's backing array.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parse converts a display string back into a Path.
// The string must start with "$".
func Parse(s string) (Path, error) {
	if len(s) == 0 || s[0] != '$' {
		return nil, fmt.Errorf("path %q must start with %q", s, Root)
	}
	var p Path
	rest := s[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			field, tail, err := parseField(rest[1:])
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", s, err)
			}
			p = append(p, Field(field))
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return nil, fmt.Errorf("path %q: unterminated index", s)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, fmt.Errorf("path %q: bad index %q", s, rest[1:end])
			}
			if n < 0 {
				return nil, fmt.Errorf("path %q: negative index %d", s, n)
			}
			p = append(p, Index(n))
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("path %q: expected '.' or '[' at %q", s, rest)
		}
	}
	return p, nil
}

// parseField consumes one field name, quoted or bare, and returns the
// unquoted name plus the unconsumed remainder.
func parseField(s string) (field, rest string, err error) {
	if len(s) == 0 {
		return "", "", fmt.Errorf("empty field name")
	}
	if s[0] != '\'' {
		i := strings.IndexAny(s, ".[")
		if i == -1 {
			return s, "", nil
		}
		if i == 0 {
			return "", "", fmt.Errorf("empty field name")
		}
		return s[:i], s[i:], nil
	}
	// Quoted form: scan for the closing quote, honoring \' escapes.
	var b strings.Builder
	escaped := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '\'':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated quoted field")
}
