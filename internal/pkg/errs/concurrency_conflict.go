package errs

import (
	"errors"
	"fmt"
)

// ErrConcurrencyConflict is returned when a compare-and-set write lost a race.
// Callers must re-read the object and retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ConcurrencyConflictError identifies the object whose stored version moved on.
type ConcurrencyConflictError struct {
	Object string
	ID     any
	Cause  error
}

func NewConcurrencyConflictError(object string, id any) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Object: object, ID: id}
}

func NewConcurrencyConflictErrorWithCause(object string, id any, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Object: object, ID: id, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrConcurrencyConflict, e.Object, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrConcurrencyConflict, e.Object, sanitize(e.ID))
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}
