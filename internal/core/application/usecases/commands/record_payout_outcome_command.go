package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrRecordPayoutOutcomeCommandIsNotConstructed = errors.New(
	"RecordPayoutOutcomeCommand must be created via NewRecordPayoutOutcomeCommand constructor",
)

// PayoutOutcome is what the bank reported for a transfer.
type PayoutOutcome string

const (
	OutcomeSent      PayoutOutcome = "sent"
	OutcomeSucceeded PayoutOutcome = "succeeded"
	OutcomeFailed    PayoutOutcome = "failed"
)

func (o PayoutOutcome) Validate() error {
	switch o {
	case OutcomeSent, OutcomeSucceeded, OutcomeFailed:
		return nil
	}
	return errs.NewValueIsInvalidError("payout outcome")
}

// RecordPayoutOutcomeCommand applies a bank callback to a payout.
type RecordPayoutOutcomeCommand struct {
	payoutID       kernel.UUID
	outcome        PayoutOutcome
	failureCode    string
	failureMessage string
	actor          kernel.Actor

	guard guard.ConstructorGuard
}

func NewRecordPayoutOutcomeCommand(
	payoutID kernel.UUID,
	outcome PayoutOutcome,
	failureCode, failureMessage string,
	actor kernel.Actor,
) (RecordPayoutOutcomeCommand, error) {
	if err := errors.Join(payoutID.Validate(), outcome.Validate(), actor.Validate()); err != nil {
		return RecordPayoutOutcomeCommand{}, err
	}
	failureCode = strings.TrimSpace(failureCode)
	if outcome == OutcomeFailed && failureCode == "" {
		return RecordPayoutOutcomeCommand{}, errs.NewValueIsRequiredError("failure code")
	}
	return RecordPayoutOutcomeCommand{
		payoutID:       payoutID,
		outcome:        outcome,
		failureCode:    failureCode,
		failureMessage: strings.TrimSpace(failureMessage),
		actor:          actor,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPayoutOutcomeCommand) Validate() error {
	return c.guard.Validate(ErrRecordPayoutOutcomeCommandIsNotConstructed)
}

func (c RecordPayoutOutcomeCommand) PayoutID() kernel.UUID  { return c.payoutID }
func (c RecordPayoutOutcomeCommand) Outcome() PayoutOutcome { return c.outcome }
func (c RecordPayoutOutcomeCommand) FailureCode() string    { return c.failureCode }
func (c RecordPayoutOutcomeCommand) FailureMessage() string { return c.failureMessage }
func (c RecordPayoutOutcomeCommand) Actor() kernel.Actor    { return c.actor }

type RecordPayoutOutcomeCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewRecordPayoutOutcomeCommandHandler(uowFactory PayoutUoWFactory) RecordPayoutOutcomeCommandHandler {
	return RecordPayoutOutcomeCommandHandler{uowFactory: uowFactory}
}

// Handle moves the payout. A success also marks the settlement PAID and,
// once every settlement of the order is paid, moves the order to
// SETTLEMENT_PAID.
func (h RecordPayoutOutcomeCommandHandler) Handle(ctx context.Context, cmd RecordPayoutOutcomeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(kernel.PermissionManagePayout, "record payout outcome"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payoutRepo := uow.PayoutRepository()
	p, err := payoutRepo.Get(ctx, cmd.PayoutID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	switch cmd.Outcome() {
	case OutcomeSent:
		err = p.MarkSent(cmd.Actor(), now)
	case OutcomeFailed:
		err = p.MarkFailed(cmd.FailureCode(), cmd.FailureMessage(), cmd.Actor(), now)
	case OutcomeSucceeded:
		err = p.MarkSucceeded(cmd.Actor(), now)
	}
	if err != nil {
		return err
	}
	if err = payoutRepo.Update(ctx, p); err != nil {
		return err
	}

	if cmd.Outcome() == OutcomeSucceeded {
		if err = settlePaidPayout(ctx, uow, p, cmd.Actor(), now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func settlePaidPayout(ctx context.Context, uow PayoutUoW, p *payout.Payout, actor kernel.Actor, at time.Time) error {
	settlementRepo := uow.SettlementRepository()
	s, err := settlementRepo.Get(ctx, p.SettlementID())
	if err != nil {
		return err
	}
	if err = s.MarkPaid(actor, at); err != nil {
		return err
	}
	if err = settlementRepo.Update(ctx, s); err != nil {
		return err
	}

	siblings, err := settlementRepo.ListByOrder(ctx, p.OrderID())
	if err != nil {
		return err
	}
	for _, other := range siblings {
		if !other.ID().IsEqual(s.ID()) && other.Status() != settlement.StatusPaid {
			return nil
		}
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, p.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.BalancePaid {
		return nil
	}
	if err = o.Transition(order.SettlementPaid, "all settlements paid", actor, at); err != nil {
		return err
	}
	return orderRepo.Update(ctx, o)
}
