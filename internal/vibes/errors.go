package vibes

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a vibe id the contract has never minted.
var ErrNotFound = errors.New("vibe not found")

// ErrAlreadyLiked reports a like attempt from an address the contract has
// already counted for that vibe.
var ErrAlreadyLiked = errors.New("vibe already liked by this address")

// ValidationError is bad user input, detected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ReadError is a failed contract or RPC read. Callers degrade to an empty
// view with a retry affordance; they never crash on one.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a failed transaction submission: RPC failure, revert, or the
// wallet declining to sign. The caller keeps its draft state intact so the
// user can retry.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
