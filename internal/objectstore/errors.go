package objectstore

import (
	"errors"
	"fmt"
)

// ErrStorage classifies every failure reported by an object-store backend.
var ErrStorage = errors.New("storage error")

// Error records which backend operation failed for which key.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("object store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("object store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports true for ErrStorage so callers can classify without a type switch.
func (e *Error) Is(target error) bool { return target == ErrStorage }
