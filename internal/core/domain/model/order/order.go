package order

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
	// ErrOrderIsNotConstructed is returned for orders not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrInvalidTransition is returned when a status change is not a declared edge
	// and the actor holds no override permission.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrHelperMismatch is returned when a helper acts on an order they are not matched to.
	ErrHelperMismatch = errors.New("helper is not matched to the order")
)

// InvalidTransitionError names the rejected edge.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Order is the aggregate root of a posted delivery job.
//
// Invariants:
//   - status is always one of the declared statuses
//   - status changes only through Transition, one StatusEvent per change
//   - CLOSED and CANCELLED are terminal, even for override transitions
//   - orders are never deleted, only cancelled or hidden
type Order struct {
	id              kernel.UUID
	requesterID     kernel.UUID
	matchedHelperID *kernel.UUID
	unitPrice       int64
	quantity        int
	scheduledDate   time.Time
	maxHelpers      int
	currentHelpers  int
	paymentStatus   PaymentStatus
	depositAmount   int64
	balanceAmount   int64
	balanceDueAt    *time.Time
	closedAt        *time.Time
	hiddenAt        *time.Time
	createdAt       time.Time
	status          Status
	version         int

	pendingEvents []StatusEvent
	guard         guard.ConstructorGuard
}

// State is the flat representation used to persist and restore an order.
type State struct {
	ID              kernel.UUID
	RequesterID     kernel.UUID
	MatchedHelperID *kernel.UUID
	UnitPrice       int64
	Quantity        int
	ScheduledDate   time.Time
	MaxHelpers      int
	CurrentHelpers  int
	PaymentStatus   PaymentStatus
	DepositAmount   int64
	BalanceAmount   int64
	BalanceDueAt    *time.Time
	ClosedAt        *time.Time
	HiddenAt        *time.Time
	CreatedAt       time.Time
	Status          Status
	Version         int
}

// NewOrder posts a new order. It starts in AWAITING_DEPOSIT with the
// estimated deposit the requester has to pay before the order opens.
func NewOrder(
	id, requesterID kernel.UUID,
	unitPrice int64,
	quantity int,
	scheduledDate time.Time,
	maxHelpers int,
	depositAmount int64,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        AwaitingDeposit,
		paymentStatus: PaymentUnpaid,
		createdAt:     createdAt,
		guard:         guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(id),
		o.setRequester(requesterID),
		o.setPricing(unitPrice, quantity),
		o.setScheduledDate(scheduledDate),
		o.setMaxHelpers(maxHelpers),
		o.setDeposit(depositAmount),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// RestoreOrder rebuilds an order loaded from storage.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		matchedHelperID: s.MatchedHelperID,
		currentHelpers:  s.CurrentHelpers,
		balanceAmount:   s.BalanceAmount,
		balanceDueAt:    s.BalanceDueAt,
		closedAt:        s.ClosedAt,
		hiddenAt:        s.HiddenAt,
		createdAt:       s.CreatedAt,
		version:         s.Version,
		guard:           guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(s.ID),
		o.setRequester(s.RequesterID),
		o.setPricing(s.UnitPrice, s.Quantity),
		o.setScheduledDate(s.ScheduledDate),
		o.setMaxHelpers(s.MaxHelpers),
		o.setDeposit(s.DepositAmount),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status
	o.paymentStatus = s.PaymentStatus
	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// State returns a copy of the persisted fields.
func (o *Order) State() State {
	return State{
		ID:              o.id,
		RequesterID:     o.requesterID,
		MatchedHelperID: o.matchedHelperID,
		UnitPrice:       o.unitPrice,
		Quantity:        o.quantity,
		ScheduledDate:   o.scheduledDate,
		MaxHelpers:      o.maxHelpers,
		CurrentHelpers:  o.currentHelpers,
		PaymentStatus:   o.paymentStatus,
		DepositAmount:   o.depositAmount,
		BalanceAmount:   o.balanceAmount,
		BalanceDueAt:    o.balanceDueAt,
		ClosedAt:        o.closedAt,
		HiddenAt:        o.hiddenAt,
		CreatedAt:       o.createdAt,
		Status:          o.status,
		Version:         o.version,
	}
}

func (o *Order) ID() kernel.UUID               { return o.id }
func (o *Order) RequesterID() kernel.UUID      { return o.requesterID }
func (o *Order) MatchedHelperID() *kernel.UUID { return o.matchedHelperID }
func (o *Order) UnitPrice() int64              { return o.unitPrice }
func (o *Order) Quantity() int                 { return o.quantity }
func (o *Order) ScheduledDate() time.Time      { return o.scheduledDate }
func (o *Order) MaxHelpers() int               { return o.maxHelpers }
func (o *Order) CurrentHelpers() int           { return o.currentHelpers }
func (o *Order) PaymentStatus() PaymentStatus  { return o.paymentStatus }
func (o *Order) DepositAmount() int64          { return o.depositAmount }
func (o *Order) BalanceAmount() int64          { return o.balanceAmount }
func (o *Order) BalanceDueAt() *time.Time      { return o.balanceDueAt }
func (o *Order) ClosedAt() *time.Time          { return o.closedAt }
func (o *Order) HiddenAt() *time.Time          { return o.hiddenAt }
func (o *Order) Status() Status                { return o.status }

// Version is the optimistic concurrency token loaded from storage.
func (o *Order) Version() int { return o.version }

// AdvanceVersion is called by the repository after a successful compare-and-set write.
func (o *Order) AdvanceVersion() { o.version++ }

// PendingEvents returns status events not yet written to the event log.
func (o *Order) PendingEvents() []StatusEvent {
	return append([]StatusEvent(nil), o.pendingEvents...)
}

// ClearPendingEvents is called by the repository once the events are stored.
func (o *Order) ClearPendingEvents() { o.pendingEvents = nil }

// Transition is the only way an order changes status. The edge must be
// declared in the transition table unless the actor may override, in which
// case the event is flagged overrideUsed. Terminal statuses are never left.
func (o *Order) Transition(target Status, reason string, actor kernel.Actor, at time.Time) error {
	if err := errors.Join(target.Validate(), actor.Validate()); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if target == Cancelled && reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}
	if o.status.IsTerminal() || target == o.status {
		return &InvalidTransitionError{From: o.status, To: target}
	}

	override := false
	if !o.status.CanTransitionTo(target) {
		if !actor.CanOverride() {
			return &InvalidTransitionError{From: o.status, To: target}
		}
		override = true
	}

	previous := o.status
	o.status = target
	if target == Closed {
		closedAt := at
		o.closedAt = &closedAt
	}
	o.pendingEvents = append(o.pendingEvents, StatusEvent{
		ID:           kernel.NewUUID(),
		OrderID:      o.id,
		RequesterID:  o.requesterID,
		HelperID:     o.matchedHelperID,
		Previous:     previous,
		New:          target,
		Reason:       reason,
		Actor:        actor.String(),
		OverrideUsed: override,
		OccurredAt:   at,
	})
	return nil
}

// ConfirmDeposit opens the order for applications once the deposit arrived.
func (o *Order) ConfirmDeposit(actor kernel.Actor, at time.Time) error {
	if o.paymentStatus != PaymentUnpaid {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("deposit already recorded as %s", o.paymentStatus))
	}
	if err := o.Transition(Open, "deposit confirmed", actor, at); err != nil {
		return err
	}
	o.paymentStatus = PaymentDepositPaid
	return nil
}

// AssignHelper records a selected helper. The first helper becomes the
// matched helper; when all helper slots are filled the order is scheduled.
// It reports whether the order moved to SCHEDULED.
func (o *Order) AssignHelper(helperID kernel.UUID, actor kernel.Actor, at time.Time) (bool, error) {
	if err := helperID.Validate(); err != nil {
		return false, err
	}
	if o.status != Open {
		return false, &InvalidTransitionError{From: o.status, To: Scheduled}
	}
	if o.currentHelpers >= o.maxHelpers {
		return false, errs.NewValueIsOutOfRangeError("currentHelpers", o.currentHelpers+1, 0, o.maxHelpers)
	}
	if o.matchedHelperID == nil {
		id := helperID
		o.matchedHelperID = &id
	}
	o.currentHelpers++
	if o.currentHelpers < o.maxHelpers {
		return false, nil
	}
	if err := o.Transition(Scheduled, "helper selected", actor, at); err != nil {
		return false, err
	}
	return true, nil
}

// ScheduleShortStaffed schedules an open order with the helpers selected so
// far. It is used once the scheduled date passes before every slot filled.
func (o *Order) ScheduleShortStaffed(actor kernel.Actor, at time.Time) error {
	if o.currentHelpers == 0 {
		return errs.NewValueIsOutOfRangeError("currentHelpers", o.currentHelpers, 1, o.maxHelpers)
	}
	if o.status != Open {
		return &InvalidTransitionError{From: o.status, To: Scheduled}
	}
	reason := fmt.Sprintf("scheduled with %d of %d helpers", o.currentHelpers, o.maxHelpers)
	return o.Transition(Scheduled, reason, actor, at)
}

// ReleaseHelper removes a selected helper. nextMatched replaces the matched
// helper when the released one held that role. A scheduled order that is no
// longer fully staffed goes back to OPEN.
func (o *Order) ReleaseHelper(helperID kernel.UUID, nextMatched *kernel.UUID, actor kernel.Actor, at time.Time) error {
	if !o.status.Is(Open, Scheduled) {
		return &InvalidTransitionError{From: o.status, To: Open}
	}
	if o.currentHelpers > 0 {
		o.currentHelpers--
	}
	if o.matchedHelperID != nil && o.matchedHelperID.IsEqual(helperID) {
		o.matchedHelperID = nextMatched
	}
	if o.status == Scheduled && o.currentHelpers < o.maxHelpers {
		return o.Transition(Open, "selected helper removed", actor, at)
	}
	return nil
}

// RequireMatchedHelper fails unless helperID is the order's matched helper.
func (o *Order) RequireMatchedHelper(helperID kernel.UUID) error {
	if o.matchedHelperID == nil || !o.matchedHelperID.IsEqual(helperID) {
		return fmt.Errorf("%w: order %s, helper %s", ErrHelperMismatch, o.id, helperID)
	}
	return nil
}

// ConfirmFinalAmount records the approved balance and its due date.
func (o *Order) ConfirmFinalAmount(balance int64, dueAt time.Time, actor kernel.Actor, at time.Time) error {
	if balance < 0 {
		return errs.NewValueIsOutOfRangeError("balance", balance, 0, "unbounded")
	}
	if err := o.Transition(FinalAmountConfirmed, "closing report approved", actor, at); err != nil {
		return err
	}
	o.balanceAmount = balance
	due := dueAt
	o.balanceDueAt = &due
	return nil
}

// PayBalance records the requester's balance payment.
func (o *Order) PayBalance(actor kernel.Actor, at time.Time) error {
	if err := o.Transition(BalancePaid, "balance paid", actor, at); err != nil {
		return err
	}
	o.paymentStatus = PaymentBalancePaid
	return nil
}

// Cancel moves any non-terminal order to CANCELLED.
func (o *Order) Cancel(reason string, actor kernel.Actor, at time.Time) error {
	return o.Transition(Cancelled, reason, actor, at)
}

// MarkRefunded flags the paid deposit as refunded. It reports whether there
// was a deposit to refund.
func (o *Order) MarkRefunded() bool {
	if o.paymentStatus != PaymentDepositPaid {
		return false
	}
	o.paymentStatus = PaymentRefunded
	return true
}

// Hide soft-deletes the order from listings. It reports whether the order
// was visible before.
func (o *Order) Hide(at time.Time) bool {
	if o.hiddenAt != nil {
		return false
	}
	hiddenAt := at
	o.hiddenAt = &hiddenAt
	return true
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRequester(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requester", err)
	}
	o.requesterID = id
	return nil
}

func (o *Order) setPricing(unitPrice int64, quantity int) error {
	if unitPrice <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid", fmt.Errorf("%d is not greater than 0", unitPrice))
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	o.unitPrice = unitPrice
	o.quantity = quantity
	return nil
}

func (o *Order) setScheduledDate(d time.Time) error {
	if d.IsZero() {
		return errs.NewValueIsRequiredError("scheduled date")
	}
	o.scheduledDate = d
	return nil
}

func (o *Order) setMaxHelpers(n int) error {
	if n < 1 || n > MaxActiveCandidates {
		return errs.NewValueIsOutOfRangeError("maxHelpers", n, 1, MaxActiveCandidates)
	}
	o.maxHelpers = n
	return nil
}

func (o *Order) setDeposit(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("deposit is invalid", fmt.Errorf("%d is negative", amount))
	}
	o.depositAmount = amount
	return nil
}

// MaxActiveCandidates caps applied plus selected candidates per order, and
// therefore the helper slots an order may ask for.
const MaxActiveCandidates = 3
