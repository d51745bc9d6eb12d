package candidate

import (
	"errors"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

// MaxActive is the number of applied plus selected candidates an order may hold.
const MaxActive = 3

var (
	ErrCandidateIsNotConstructed = errors.New("Candidate must be created via NewCandidate constructor")

	// ErrCapReached is returned when an order already has MaxActive active candidates.
	ErrCapReached = errors.New("candidate cap reached")

	// ErrAlreadyApplied is returned when the helper already holds an active candidate on the order.
	ErrAlreadyApplied = errors.New("helper already applied to the order")

	// ErrInvalidStatus is returned for status changes the candidate cannot make.
	ErrInvalidStatus = errors.New("invalid candidate status change")
)

// Status of a candidate.
type Status string

const (
	StatusApplied       Status = "applied"
	StatusSelected      Status = "selected"
	StatusRejected      Status = "rejected"
	StatusAutoCancelled Status = "auto_cancelled"
)

func (s Status) Validate() error {
	switch s {
	case StatusApplied, StatusSelected, StatusRejected, StatusAutoCancelled:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("candidate status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// IsActive reports whether the status counts towards the cap.
func (s Status) IsActive() bool {
	return s == StatusApplied || s == StatusSelected
}

// CheckCapacity fails with ErrCapReached when activeCount leaves no room for one more.
func CheckCapacity(activeCount int) error {
	if activeCount >= MaxActive {
		return fmt.Errorf("%w: %d of %d active", ErrCapReached, activeCount, MaxActive)
	}
	return nil
}

// Candidate is one helper's application to one order.
type Candidate struct {
	id        kernel.UUID
	orderID   kernel.UUID
	helperID  kernel.UUID
	status    Status
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewCandidate creates an applied candidate.
func NewCandidate(id, orderID, helperID kernel.UUID, at time.Time) (*Candidate, error) {
	if err := errors.Join(
		id.Validate(),
		wrapRequired("order", orderID.Validate()),
		wrapRequired("helper", helperID.Validate()),
	); err != nil {
		return nil, err
	}
	return &Candidate{
		id:        id,
		orderID:   orderID,
		helperID:  helperID,
		status:    StatusApplied,
		createdAt: at,
		updatedAt: at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreCandidate rebuilds a stored candidate.
func RestoreCandidate(id, orderID, helperID kernel.UUID, status Status, createdAt, updatedAt time.Time) (*Candidate, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	c, err := NewCandidate(id, orderID, helperID, createdAt)
	if err != nil {
		return nil, err
	}
	c.status = status
	c.updatedAt = updatedAt
	return c, nil
}

func (c *Candidate) Validate() error {
	if c == nil {
		return ErrCandidateIsNotConstructed
	}
	return c.guard.Validate(ErrCandidateIsNotConstructed)
}

func (c *Candidate) ID() kernel.UUID       { return c.id }
func (c *Candidate) OrderID() kernel.UUID  { return c.orderID }
func (c *Candidate) HelperID() kernel.UUID { return c.helperID }
func (c *Candidate) Status() Status        { return c.status }
func (c *Candidate) CreatedAt() time.Time  { return c.createdAt }
func (c *Candidate) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Candidate) IsActive() bool        { return c.status.IsActive() }

// Select moves an applied candidate to selected.
func (c *Candidate) Select(at time.Time) error {
	return c.move(StatusSelected, at, StatusApplied)
}

// Reject ends an active candidate: a sibling was selected or the helper was removed.
func (c *Candidate) Reject(at time.Time) error {
	return c.move(StatusRejected, at, StatusApplied, StatusSelected)
}

// AutoCancel ends an active candidate because its order was cancelled by a sweep.
func (c *Candidate) AutoCancel(at time.Time) error {
	return c.move(StatusAutoCancelled, at, StatusApplied, StatusSelected)
}

func (c *Candidate) move(to Status, at time.Time, from ...Status) error {
	for _, s := range from {
		if c.status == s {
			c.status = to
			c.updatedAt = at
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, c.status, to)
}

func wrapRequired(name string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(name, err)
}
