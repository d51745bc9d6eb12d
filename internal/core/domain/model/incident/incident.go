// Package incident records damage or loss reported against a helper's work.
// An open incident whose response deadline passes is turned into a
// settlement deduction exactly once.
package incident

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var (
	ErrIncidentIsNotConstructed = errors.New("Incident must be created via NewIncident constructor")
	ErrAlreadyResolved          = errors.New("incident is already resolved")
	ErrDeductionApplied         = errors.New("incident deduction is already applied")
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

func (s Status) Validate() error {
	if s == StatusOpen || s == StatusResolved {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("incident status is invalid", fmt.Errorf("%q is not a valid status", s))
}

type Incident struct {
	id                     kernel.UUID
	orderID                kernel.UUID
	helperID               kernel.UUID
	deductionAmount        int64
	description            string
	helperResponseDeadline time.Time
	status                 Status
	deductionApplied       bool
	deductionAppliedAt     *time.Time
	reportedBy             string
	createdAt              time.Time
	guard                  guard.ConstructorGuard
}

type State struct {
	ID                     kernel.UUID
	OrderID                kernel.UUID
	HelperID               kernel.UUID
	DeductionAmount        int64
	Description            string
	HelperResponseDeadline time.Time
	Status                 Status
	DeductionApplied       bool
	DeductionAppliedAt     *time.Time
	ReportedBy             string
	CreatedAt              time.Time
}

// NewIncident opens an incident the helper may answer until deadline.
func NewIncident(
	id, orderID, helperID kernel.UUID,
	deductionAmount int64,
	description string,
	deadline time.Time,
	actor kernel.Actor,
	at time.Time,
) (*Incident, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), helperID.Validate(), actor.Validate()); err != nil {
		return nil, err
	}
	if deductionAmount <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("deductionAmount", deductionAmount, 1, "unbounded")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errs.NewValueIsRequiredError("description")
	}
	if !deadline.After(at) {
		return nil, errs.NewValueIsInvalidErrorWithCause("helperResponseDeadline", fmt.Errorf("%s is not after %s", deadline, at))
	}
	return &Incident{
		id:                     id,
		orderID:                orderID,
		helperID:               helperID,
		deductionAmount:        deductionAmount,
		description:            description,
		helperResponseDeadline: deadline,
		status:                 StatusOpen,
		reportedBy:             actor.String(),
		createdAt:              at,
		guard:                  guard.NewConstructorGuard(),
	}, nil
}

func RestoreIncident(s State) (*Incident, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.HelperID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	return &Incident{
		id:                     s.ID,
		orderID:                s.OrderID,
		helperID:               s.HelperID,
		deductionAmount:        s.DeductionAmount,
		description:            s.Description,
		helperResponseDeadline: s.HelperResponseDeadline,
		status:                 s.Status,
		deductionApplied:       s.DeductionApplied,
		deductionAppliedAt:     s.DeductionAppliedAt,
		reportedBy:             s.ReportedBy,
		createdAt:              s.CreatedAt,
		guard:                  guard.NewConstructorGuard(),
	}, nil
}

func (i *Incident) Validate() error {
	if i == nil {
		return ErrIncidentIsNotConstructed
	}
	return i.guard.Validate(ErrIncidentIsNotConstructed)
}

func (i *Incident) State() State {
	return State{
		ID:                     i.id,
		OrderID:                i.orderID,
		HelperID:               i.helperID,
		DeductionAmount:        i.deductionAmount,
		Description:            i.description,
		HelperResponseDeadline: i.helperResponseDeadline,
		Status:                 i.status,
		DeductionApplied:       i.deductionApplied,
		DeductionAppliedAt:     i.deductionAppliedAt,
		ReportedBy:             i.reportedBy,
		CreatedAt:              i.createdAt,
	}
}

func (i *Incident) ID() kernel.UUID        { return i.id }
func (i *Incident) OrderID() kernel.UUID   { return i.orderID }
func (i *Incident) HelperID() kernel.UUID  { return i.helperID }
func (i *Incident) DeductionAmount() int64 { return i.deductionAmount }
func (i *Incident) Status() Status         { return i.status }
func (i *Incident) DeductionApplied() bool { return i.deductionApplied }
func (i *Incident) Deadline() time.Time    { return i.helperResponseDeadline }
func (i *Incident) Description() string    { return i.description }

// IsDeductionDue reports whether the deduction sweep should pick the incident up.
func (i *Incident) IsDeductionDue(now time.Time) bool {
	return i.status == StatusOpen && !i.deductionApplied && now.After(i.helperResponseDeadline)
}

// MarkDeductionApplied flips the one-shot flag.
func (i *Incident) MarkDeductionApplied(at time.Time) error {
	if i.deductionApplied {
		return fmt.Errorf("%w: %s", ErrDeductionApplied, i.id)
	}
	if i.status != StatusOpen {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, i.id)
	}
	i.deductionApplied = true
	appliedAt := at
	i.deductionAppliedAt = &appliedAt
	return nil
}

// Resolve closes the incident without a deduction, e.g. after the helper's response was accepted.
func (i *Incident) Resolve() error {
	if i.status == StatusResolved {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, i.id)
	}
	i.status = StatusResolved
	return nil
}
