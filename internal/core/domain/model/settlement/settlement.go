package settlement

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
	ErrSettlementIsNotConstructed = errors.New("Settlement must be created via NewSettlement constructor")

	// ErrSettlementLocked is returned when amounts change on a LOCKED, CONFIRMED or PAID settlement.
	ErrSettlementLocked = errors.New("settlement is locked")

	// ErrAlreadyLocked is returned when locking a LOCKED settlement.
	ErrAlreadyLocked = errors.New("settlement is already locked")

	// ErrInvalidStatus is returned for status changes not allowed from the current status.
	ErrInvalidStatus = errors.New("invalid settlement status change")
)

// Settlement is the per-helper ledger record created when a closing report is approved.
type Settlement struct {
	id         kernel.UUID
	orderID    kernel.UUID
	helperID   kernel.UUID
	gross      int64
	commission int64
	deduction  int64
	net        int64
	status     Status
	snapshot   pricing.Snapshot
	createdAt  time.Time
	updatedAt  time.Time
	version    int

	pendingAudit []AuditEntry
	guard        guard.ConstructorGuard
}

// State is the flat representation of a stored settlement.
type State struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	HelperID   kernel.UUID
	Gross      int64
	Commission int64
	Deduction  int64
	Net        int64
	Status     Status
	Snapshot   pricing.Snapshot
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int
}

// NewSettlement opens a PENDING settlement copying the approval snapshot.
func NewSettlement(id, orderID, helperID kernel.UUID, snapshot pricing.Snapshot, actor kernel.Actor, at time.Time) (*Settlement, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), helperID.Validate(), actor.Validate()); err != nil {
		return nil, err
	}
	s := &Settlement{
		id:         id,
		orderID:    orderID,
		helperID:   helperID,
		gross:      snapshot.Gross,
		commission: snapshot.Commission,
		deduction:  snapshot.Deductions,
		net:        snapshot.Net,
		status:     StatusPending,
		snapshot:   snapshot,
		createdAt:  at,
		updatedAt:  at,
		guard:      guard.NewConstructorGuard(),
	}
	s.audit(AuditEntry{Kind: AuditCreated, NewStatus: StatusPending, Reason: "closing report approved"}, actor, at)
	return s, nil
}

// RestoreSettlement rebuilds a stored settlement.
func RestoreSettlement(st State) (*Settlement, error) {
	if err := errors.Join(st.ID.Validate(), st.OrderID.Validate(), st.HelperID.Validate(), st.Status.Validate()); err != nil {
		return nil, err
	}
	return &Settlement{
		id:         st.ID,
		orderID:    st.OrderID,
		helperID:   st.HelperID,
		gross:      st.Gross,
		commission: st.Commission,
		deduction:  st.Deduction,
		net:        st.Net,
		status:     st.Status,
		snapshot:   st.Snapshot,
		createdAt:  st.CreatedAt,
		updatedAt:  st.UpdatedAt,
		version:    st.Version,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (s *Settlement) Validate() error {
	if s == nil {
		return ErrSettlementIsNotConstructed
	}
	return s.guard.Validate(ErrSettlementIsNotConstructed)
}

func (s *Settlement) State() State {
	return State{
		ID:         s.id,
		OrderID:    s.orderID,
		HelperID:   s.helperID,
		Gross:      s.gross,
		Commission: s.commission,
		Deduction:  s.deduction,
		Net:        s.net,
		Status:     s.status,
		Snapshot:   s.snapshot,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
		Version:    s.version,
	}
}

func (s *Settlement) ID() kernel.UUID            { return s.id }
func (s *Settlement) OrderID() kernel.UUID       { return s.orderID }
func (s *Settlement) HelperID() kernel.UUID      { return s.helperID }
func (s *Settlement) Gross() int64               { return s.gross }
func (s *Settlement) Commission() int64          { return s.commission }
func (s *Settlement) Deduction() int64           { return s.deduction }
func (s *Settlement) Net() int64                 { return s.net }
func (s *Settlement) Status() Status             { return s.status }
func (s *Settlement) Snapshot() pricing.Snapshot { return s.snapshot }
func (s *Settlement) Version() int               { return s.version }
func (s *Settlement) AdvanceVersion()            { s.version++ }

// PendingAudit returns audit entries not yet written.
func (s *Settlement) PendingAudit() []AuditEntry {
	return append([]AuditEntry(nil), s.pendingAudit...)
}

func (s *Settlement) ClearPendingAudit() { s.pendingAudit = nil }

// MarkReady moves a PENDING settlement to READY once the balance is paid.
// It reports whether the status changed; any other status is left alone.
func (s *Settlement) MarkReady(actor kernel.Actor, at time.Time) bool {
	if s.status != StatusPending {
		return false
	}
	s.setStatus(StatusReady, AuditReady, "balance paid", actor, at)
	return true
}

// Lock freezes the amounts.
func (s *Settlement) Lock(reason string, actor kernel.Actor, at time.Time) error {
	if err := actor.Require(kernel.PermissionManageSettlement, "lock settlement"); err != nil {
		return err
	}
	return s.lock(reason, actor, at)
}

// LockForPayout freezes a READY settlement on behalf of a payout request.
func (s *Settlement) LockForPayout(actor kernel.Actor, at time.Time) error {
	return s.lock("payout requested", actor, at)
}

func (s *Settlement) lock(reason string, actor kernel.Actor, at time.Time) error {
	switch s.status {
	case StatusPending, StatusReady:
		s.setStatus(StatusLocked, AuditLocked, reason, actor, at)
		return nil
	case StatusLocked:
		return fmt.Errorf("%w: %s", ErrAlreadyLocked, s.id)
	default:
		return s.invalid(StatusLocked)
	}
}

// Unlock makes a LOCKED settlement editable again.
func (s *Settlement) Unlock(reason string, actor kernel.Actor, at time.Time) error {
	if err := actor.Require(kernel.PermissionManageSettlement, "unlock settlement"); err != nil {
		return err
	}
	if s.status != StatusLocked {
		return s.invalid(StatusReady)
	}
	s.setStatus(StatusReady, AuditUnlocked, reason, actor, at)
	return nil
}

// Confirm finalizes a LOCKED settlement for payout.
func (s *Settlement) Confirm(reason string, actor kernel.Actor, at time.Time) error {
	if err := actor.Require(kernel.PermissionManageSettlement, "confirm settlement"); err != nil {
		return err
	}
	if s.status != StatusLocked {
		return s.invalid(StatusConfirmed)
	}
	s.setStatus(StatusConfirmed, AuditConfirmed, reason, actor, at)
	return nil
}

// MarkPaid records a succeeded payout.
func (s *Settlement) MarkPaid(actor kernel.Actor, at time.Time) error {
	if s.status != StatusLocked && s.status != StatusConfirmed {
		return s.invalid(StatusPaid)
	}
	s.setStatus(StatusPaid, AuditPaid, "payout succeeded", actor, at)
	return nil
}

// EditAmount overwrites one amount and recomputes net.
func (s *Settlement) EditAmount(field Field, value int64, reason string, actor kernel.Actor, at time.Time) error {
	if err := actor.Require(kernel.PermissionManageSettlement, "edit settlement"); err != nil {
		return err
	}
	if err := field.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if value < 0 {
		return errs.NewValueIsOutOfRangeError(string(field), value, 0, "unbounded")
	}
	if s.status.IsFrozen() {
		return fmt.Errorf("%w: %s is %s", ErrSettlementLocked, s.id, s.status)
	}

	gross, commission, deduction := s.gross, s.commission, s.deduction
	var previous int64
	switch field {
	case FieldGross:
		previous, gross = gross, value
	case FieldCommission:
		previous, commission = commission, value
	case FieldDeduction:
		previous, deduction = deduction, value
	}
	if err := s.setAmounts(gross, commission, deduction); err != nil {
		return err
	}
	s.audit(AuditEntry{Kind: AuditAmountEdited, Field: field, PreviousValue: &previous, NewValue: &value, Reason: reason}, actor, at)
	return nil
}

// ApplyDeduction adds amount to the deduction, as the incident sweep does.
func (s *Settlement) ApplyDeduction(amount int64, reason string, actor kernel.Actor, at time.Time) error {
	if amount <= 0 {
		return errs.NewValueIsOutOfRangeError("deduction", amount, 1, "unbounded")
	}
	if s.status.IsFrozen() {
		return fmt.Errorf("%w: %s is %s", ErrSettlementLocked, s.id, s.status)
	}
	previous := s.deduction
	if err := s.setAmounts(s.gross, s.commission, s.deduction+amount); err != nil {
		return err
	}
	next := s.deduction
	s.audit(AuditEntry{Kind: AuditDeductionApplied, Field: FieldDeduction, PreviousValue: &previous, NewValue: &next, Reason: reason}, actor, at)
	return nil
}

func (s *Settlement) setAmounts(gross, commission, deduction int64) error {
	net := gross - commission - deduction
	if net < 0 {
		return errs.NewValueIsOutOfRangeError("net", net, 0, gross)
	}
	s.gross, s.commission, s.deduction, s.net = gross, commission, deduction, net
	return nil
}

func (s *Settlement) setStatus(to Status, kind AuditKind, reason string, actor kernel.Actor, at time.Time) {
	from := s.status
	s.status = to
	s.audit(AuditEntry{Kind: kind, PreviousStatus: from, NewStatus: to, Reason: reason}, actor, at)
}

func (s *Settlement) audit(e AuditEntry, actor kernel.Actor, at time.Time) {
	e.ID = kernel.NewUUID()
	e.SettlementID = s.id
	e.Actor = actor.String()
	e.CreatedAt = at
	s.updatedAt = at
	s.pendingAudit = append(s.pendingAudit, e)
}

func (s *Settlement) invalid(to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, s.status, to)
}
