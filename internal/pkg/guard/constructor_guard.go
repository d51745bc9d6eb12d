// Package guard provides the constructor guard embedded by commands, queries
// and value objects that must only be built through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. The zero value
// is "not constructed", so a command assembled as a struct literal fails
// validation before it reaches a handler.
//
// Example:
//
//	type LockSettlementCommand struct {
//	    settlementID kernel.UUID
//	    guard        guard.ConstructorGuard
//	}
//
//	func (c LockSettlementCommand) Validate() error {
//	    return c.guard.Validate(ErrLockSettlementCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the owner was not built through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
