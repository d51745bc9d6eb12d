package closing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var (
	ErrReportIsNotConstructed = errors.New("Report must be created via NewReport constructor")

	// ErrInvalidStatus is returned when a report that is no longer submitted is reviewed again.
	ErrInvalidStatus = errors.New("closing report is not awaiting review")
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) Validate() error {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("closing status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Counts are the work quantities the helper reports.
type Counts struct {
	Delivered    int
	Returned     int
	EtcCount     int
	EtcUnitPrice int64
}

// Report is the closing report aggregate.
type Report struct {
	id           kernel.UUID
	orderID      kernel.UUID
	helperID     kernel.UUID
	counts       Counts
	extraCosts   []pricing.ExtraCost
	evidenceRefs []string
	status       Status
	rejectReason string
	submission   pricing.Submission
	approval     *pricing.Snapshot
	submittedAt  time.Time
	reviewedAt   *time.Time
	reviewedBy   string
	version      int
	guard        guard.ConstructorGuard
}

// State is the flat representation of a stored report.
type State struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	HelperID     kernel.UUID
	Counts       Counts
	ExtraCosts   []pricing.ExtraCost
	EvidenceRefs []string
	Status       Status
	RejectReason string
	Submission   pricing.Submission
	Approval     *pricing.Snapshot
	SubmittedAt  time.Time
	ReviewedAt   *time.Time
	ReviewedBy   string
	Version      int
}

// NewReport records a submitted report together with its estimate.
func NewReport(
	id, orderID, helperID kernel.UUID,
	counts Counts,
	extraCosts []pricing.ExtraCost,
	evidenceRefs []string,
	submission pricing.Submission,
	at time.Time,
) (*Report, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		helperID.Validate(),
		validateCounts(counts),
	); err != nil {
		return nil, err
	}
	return &Report{
		id:           id,
		orderID:      orderID,
		helperID:     helperID,
		counts:       counts,
		extraCosts:   append([]pricing.ExtraCost(nil), extraCosts...),
		evidenceRefs: append([]string(nil), evidenceRefs...),
		status:       StatusSubmitted,
		submission:   submission,
		submittedAt:  at,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// RestoreReport rebuilds a stored report.
func RestoreReport(s State) (*Report, error) {
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}
	r, err := NewReport(s.ID, s.OrderID, s.HelperID, s.Counts, s.ExtraCosts, s.EvidenceRefs, s.Submission, s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	r.status = s.Status
	r.rejectReason = s.RejectReason
	r.approval = s.Approval
	r.reviewedAt = s.ReviewedAt
	r.reviewedBy = s.ReviewedBy
	r.version = s.Version
	return r, nil
}

func (r *Report) Validate() error {
	if r == nil {
		return ErrReportIsNotConstructed
	}
	return r.guard.Validate(ErrReportIsNotConstructed)
}

func (r *Report) State() State {
	return State{
		ID:           r.id,
		OrderID:      r.orderID,
		HelperID:     r.helperID,
		Counts:       r.counts,
		ExtraCosts:   append([]pricing.ExtraCost(nil), r.extraCosts...),
		EvidenceRefs: append([]string(nil), r.evidenceRefs...),
		Status:       r.status,
		RejectReason: r.rejectReason,
		Submission:   r.submission,
		Approval:     r.approval,
		SubmittedAt:  r.submittedAt,
		ReviewedAt:   r.reviewedAt,
		ReviewedBy:   r.reviewedBy,
		Version:      r.version,
	}
}

func (r *Report) ID() kernel.UUID                { return r.id }
func (r *Report) OrderID() kernel.UUID           { return r.orderID }
func (r *Report) HelperID() kernel.UUID          { return r.helperID }
func (r *Report) Status() Status                 { return r.status }
func (r *Report) Submission() pricing.Submission { return r.submission }
func (r *Report) Approval() *pricing.Snapshot    { return r.approval }
func (r *Report) RejectReason() string           { return r.rejectReason }
func (r *Report) Version() int                   { return r.version }
func (r *Report) AdvanceVersion()                { r.version++ }

// PricingInput assembles the calculator input from the report and its order.
func (r *Report) PricingInput(unitPrice int64, supplyOverride *int64, deductions int64) pricing.Input {
	return pricing.Input{
		UnitPrice:      unitPrice,
		Delivered:      r.counts.Delivered,
		Returned:       r.counts.Returned,
		EtcCount:       r.counts.EtcCount,
		EtcUnitPrice:   r.counts.EtcUnitPrice,
		ExtraCosts:     append([]pricing.ExtraCost(nil), r.extraCosts...),
		SupplyOverride: supplyOverride,
		Deductions:     deductions,
	}
}

// Approve stores the approval snapshot.
func (r *Report) Approve(snapshot pricing.Snapshot, actor kernel.Actor, at time.Time) error {
	if err := r.review(actor, at); err != nil {
		return err
	}
	r.status = StatusApproved
	r.approval = &snapshot
	return nil
}

// Reject sends the report back to the helper.
func (r *Report) Reject(reason string, actor kernel.Actor, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reject reason")
	}
	if err := r.review(actor, at); err != nil {
		return err
	}
	r.status = StatusRejected
	r.rejectReason = reason
	return nil
}

func (r *Report) review(actor kernel.Actor, at time.Time) error {
	if r.status != StatusSubmitted {
		return fmt.Errorf("%w: report %s is %s", ErrInvalidStatus, r.id, r.status)
	}
	reviewedAt := at
	r.reviewedAt = &reviewedAt
	r.reviewedBy = actor.String()
	return nil
}

func validateCounts(c Counts) error {
	if c.Delivered < 0 || c.Returned < 0 || c.EtcCount < 0 || c.EtcUnitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("counts", fmt.Errorf("%+v has a negative value", c))
	}
	return nil
}
