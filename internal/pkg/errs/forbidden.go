package errs

import (
	"errors"
	"fmt"
)

var ErrForbidden = errors.New("forbidden")

// ForbiddenError reports an actor lacking the permission an operation needs.
type ForbiddenError struct {
	Action string
	Actor  string
}

func NewForbiddenError(action, actor string) *ForbiddenError {
	return &ForbiddenError{Action: action, Actor: actor}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s is not allowed to %s", ErrForbidden, sanitize(e.Actor), e.Action)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}
