package payout

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
	ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout constructor")

	// ErrInvalidTransition is returned for status changes outside the payout graph.
	ErrInvalidTransition = errors.New("invalid payout status transition")

	// ErrActivePayoutExists is returned when a settlement already has a REQUESTED or SENT payout.
	ErrActivePayoutExists = errors.New("settlement already has an active payout")
)

// Event is one line of the payout's append-only status log. The creation
// event has an empty Previous status.
type Event struct {
	ID         kernel.UUID
	PayoutID   kernel.UUID
	Previous   Status
	New        Status
	Reason     string
	Actor      string
	OccurredAt time.Time
}

// Payout is the aggregate root of one transfer attempt chain.
type Payout struct {
	id             kernel.UUID
	settlementID   kernel.UUID
	orderID        kernel.UUID
	helperID       kernel.UUID
	amount         int64
	bank           BankAccount
	status         Status
	retryCount     int
	failureCode    string
	failureMessage string
	requestedAt    time.Time
	updatedAt      time.Time
	version        int

	pendingEvents []Event
	guard         guard.ConstructorGuard
}

// State is the flat representation of a stored payout.
type State struct {
	ID             kernel.UUID
	SettlementID   kernel.UUID
	OrderID        kernel.UUID
	HelperID       kernel.UUID
	Amount         int64
	Bank           BankAccount
	Status         Status
	RetryCount     int
	FailureCode    string
	FailureMessage string
	RequestedAt    time.Time
	UpdatedAt      time.Time
	Version        int
}

// NewPayout requests a transfer of amount.
func NewPayout(id, settlementID, orderID, helperID kernel.UUID, amount int64, bank BankAccount, actor kernel.Actor, at time.Time) (*Payout, error) {
	if err := errors.Join(
		id.Validate(),
		settlementID.Validate(),
		orderID.Validate(),
		helperID.Validate(),
		bank.Validate(),
		actor.Validate(),
	); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("amount", amount, 1, "unbounded")
	}
	p := &Payout{
		id:           id,
		settlementID: settlementID,
		orderID:      orderID,
		helperID:     helperID,
		amount:       amount,
		bank:         bank,
		status:       StatusRequested,
		requestedAt:  at,
		updatedAt:    at,
		guard:        guard.NewConstructorGuard(),
	}
	p.record("", StatusRequested, "payout requested", actor, at)
	return p, nil
}

// RestorePayout rebuilds a stored payout.
func RestorePayout(s State) (*Payout, error) {
	if err := errors.Join(s.ID.Validate(), s.SettlementID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	return &Payout{
		id:             s.ID,
		settlementID:   s.SettlementID,
		orderID:        s.OrderID,
		helperID:       s.HelperID,
		amount:         s.Amount,
		bank:           s.Bank,
		status:         s.Status,
		retryCount:     s.RetryCount,
		failureCode:    s.FailureCode,
		failureMessage: s.FailureMessage,
		requestedAt:    s.RequestedAt,
		updatedAt:      s.UpdatedAt,
		version:        s.Version,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (p *Payout) Validate() error {
	if p == nil {
		return ErrPayoutIsNotConstructed
	}
	return p.guard.Validate(ErrPayoutIsNotConstructed)
}

func (p *Payout) State() State {
	return State{
		ID:             p.id,
		SettlementID:   p.settlementID,
		OrderID:        p.orderID,
		HelperID:       p.helperID,
		Amount:         p.amount,
		Bank:           p.bank,
		Status:         p.status,
		RetryCount:     p.retryCount,
		FailureCode:    p.failureCode,
		FailureMessage: p.failureMessage,
		RequestedAt:    p.requestedAt,
		UpdatedAt:      p.updatedAt,
		Version:        p.version,
	}
}

func (p *Payout) ID() kernel.UUID           { return p.id }
func (p *Payout) SettlementID() kernel.UUID { return p.settlementID }
func (p *Payout) OrderID() kernel.UUID      { return p.orderID }
func (p *Payout) HelperID() kernel.UUID     { return p.helperID }
func (p *Payout) Amount() int64             { return p.amount }
func (p *Payout) Bank() BankAccount         { return p.bank }
func (p *Payout) Status() Status            { return p.status }
func (p *Payout) RetryCount() int           { return p.retryCount }
func (p *Payout) FailureCode() string       { return p.failureCode }
func (p *Payout) FailureMessage() string    { return p.failureMessage }
func (p *Payout) Version() int              { return p.version }
func (p *Payout) AdvanceVersion()           { p.version++ }

func (p *Payout) PendingEvents() []Event {
	return append([]Event(nil), p.pendingEvents...)
}

func (p *Payout) ClearPendingEvents() { p.pendingEvents = nil }

// MarkSent records that the bank accepted the transfer.
func (p *Payout) MarkSent(actor kernel.Actor, at time.Time) error {
	return p.move(StatusSent, "sent to bank", actor, at)
}

// MarkSucceeded records the bank's confirmation.
func (p *Payout) MarkSucceeded(actor kernel.Actor, at time.Time) error {
	return p.move(StatusSucceeded, "bank confirmed transfer", actor, at)
}

// MarkFailed records the bank's rejection.
func (p *Payout) MarkFailed(code, message string, actor kernel.Actor, at time.Time) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("failure code")
	}
	reason := code
	if message != "" {
		reason = code + ": " + message
	}
	if err := p.move(StatusFailed, reason, actor, at); err != nil {
		return err
	}
	p.failureCode = code
	p.failureMessage = message
	return nil
}

// Retry requests a failed payout again.
func (p *Payout) Retry(actor kernel.Actor, at time.Time) error {
	if err := p.move(StatusRequested, fmt.Sprintf("retry %d", p.retryCount+1), actor, at); err != nil {
		return err
	}
	p.retryCount++
	p.failureCode = ""
	p.failureMessage = ""
	return nil
}

func (p *Payout) move(to Status, reason string, actor kernel.Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !p.status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.status, to)
	}
	from := p.status
	p.status = to
	p.updatedAt = at
	p.record(from, to, reason, actor, at)
	return nil
}

func (p *Payout) record(from, to Status, reason string, actor kernel.Actor, at time.Time) {
	p.pendingEvents = append(p.pendingEvents, Event{
		ID:         kernel.NewUUID(),
		PayoutID:   p.id,
		Previous:   from,
		New:        to,
		Reason:     reason,
		Actor:      actor.String(),
		OccurredAt: at,
	})
}
