package settlement

import (
	"fmt"

	"helperhub/internal/pkg/errs"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReady     Status = "READY"
	StatusLocked    Status = "LOCKED"
	StatusConfirmed Status = "CONFIRMED"
	StatusPaid      Status = "PAID"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusReady, StatusLocked, StatusConfirmed, StatusPaid:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("settlement status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// IsFrozen reports whether amounts may no longer change.
func (s Status) IsFrozen() bool {
	return s == StatusLocked || s == StatusConfirmed || s == StatusPaid
}

// Field names an editable amount.
type Field string

const (
	FieldGross      Field = "gross"
	FieldCommission Field = "commission"
	FieldDeduction  Field = "deduction"
)

func (f Field) Validate() error {
	switch f {
	case FieldGross, FieldCommission, FieldDeduction:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("field is invalid", fmt.Errorf("%q is not an editable amount", f))
}
