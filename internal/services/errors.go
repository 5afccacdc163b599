package services

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidSession = errors.New("invalid session")
	ErrStateMismatch  = errors.New("oauth state mismatch")
)

// ErrCorruptDocument marks a stored document that no longer decodes.
var ErrCorruptDocument = errors.New("stored document is malformed")

// StoreError wraps a failure reported by the document store. Callers surface
// it as a server error without its detail.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
