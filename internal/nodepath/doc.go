// Package nodepath defines the canonical addressing scheme shared by the
// flattening and mutation engines.
//
// A path is an ordered sequence of segments from the root of an inspected
// value to one of its nodes. The in-memory representation (Path) is the
// source of truth; the display string is derived from it and quotes field
// names that contain separator characters, so a display string can always
// be parsed back into the exact segment sequence it came from.
package nodepath
