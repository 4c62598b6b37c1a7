package announcement

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the announcement does not exist.
	ErrNotFound = errors.New("announcement not found")
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStore classifies content store failures other than not-found.
	ErrStore = errors.New("content store error")
)

// StoreError wraps a driver failure with the repository operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s announcement: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
