package mutate

import (
	"errors"
	"fmt"
)

// MutateError is returned (never panicked) when an edit cannot be
// applied. The inspected value mutates out-of-band with respect to the
// inspector, so callers are expected to treat PATH_NOT_FOUND as a
// benign no-op.
type MutateError struct {
	// Code identifies the error category.
	Code MutateErrorCode

	// Path is the display string of the path the edit addressed.
	Path string

	// Message is a human-readable description.
	Message string
}

// MutateErrorCode categorizes mutation errors.
type MutateErrorCode string

const (
	// ErrCodePathNotFound indicates the path no longer resolves:
	// a missing intermediate key, an index out of range, or a
	// non-container met before the path was exhausted.
	ErrCodePathNotFound MutateErrorCode = "PATH_NOT_FOUND"

	// ErrCodeTypeMismatch indicates the replacement value is not
	// assignable at the addressed position, or the container cannot
	// structurally absorb the edit (e.g. deleting from a fixed-size
	// array).
	ErrCodeTypeMismatch MutateErrorCode = "TYPE_MISMATCH"
)

// Error implements the error interface.
func (e *MutateError) Error() string {
	return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
}

// IsPathNotFound returns true if the error is a path resolution
// failure. Uses errors.As to handle wrapped errors.
func IsPathNotFound(err error) bool {
	var me *MutateError
	if errors.As(err, &me) {
		return me.Code == ErrCodePathNotFound
	}
	return false
}

// IsTypeMismatch returns true if the error is a type mismatch.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var me *MutateError
	if errors.As(err, &me) {
		return me.Code == ErrCodeTypeMismatch
	}
	return false
}

func notFound(path fmt.Stringer, format string, args ...any) *MutateError {
	return &MutateError{
		Code:    ErrCodePathNotFound,
		Path:    path.String(),
		Message: fmt.Sprintf(format, args...),
	}
}

func mismatch(path fmt.Stringer, format string, args ...any) *MutateError {
	return &MutateError{
		Code:    ErrCodeTypeMismatch,
		Path:    path.String(),
		Message: fmt.Sprintf(format, args...),
	}
}
