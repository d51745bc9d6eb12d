package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/guard"
)

var (
	ErrRequestPayoutCommandIsNotConstructed = errors.New(
		"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
	)

	// ErrBalanceNotPaid is returned when a payout is requested before the
	// requester has paid the order balance.
	ErrBalanceNotPaid = errors.New("order balance is not paid")
)

// RequestPayoutCommand asks for the net amount of a settlement to be paid
// to the helper once the order balance is paid. A READY settlement is
// locked on the way.
type RequestPayoutCommand struct {
	payoutID     kernel.UUID
	settlementID kernel.UUID
	bank         payout.BankAccount
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

func NewRequestPayoutCommand(payoutID, settlementID kernel.UUID, bank payout.BankAccount, actor kernel.Actor) (RequestPayoutCommand, error) {
	if err := errors.Join(payoutID.Validate(), settlementID.Validate(), bank.Validate(), actor.Validate()); err != nil {
		return RequestPayoutCommand{}, err
	}
	return RequestPayoutCommand{
		payoutID:     payoutID,
		settlementID: settlementID,
		bank:         bank,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}

func (c RequestPayoutCommand) PayoutID() kernel.UUID     { return c.payoutID }
func (c RequestPayoutCommand) SettlementID() kernel.UUID { return c.settlementID }
func (c RequestPayoutCommand) Bank() payout.BankAccount  { return c.bank }
func (c RequestPayoutCommand) Actor() kernel.Actor       { return c.actor }

type RequestPayoutCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewRequestPayoutCommandHandler(uowFactory PayoutUoWFactory) RequestPayoutCommandHandler {
	return RequestPayoutCommandHandler{uowFactory: uowFactory}
}

func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(kernel.PermissionManagePayout, "request payout"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlementRepo := uow.SettlementRepository()
	s, err := settlementRepo.Get(ctx, cmd.SettlementID())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, s.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.BalancePaid {
		return fmt.Errorf("%w: order %s is %s", ErrBalanceNotPaid, o.ID(), o.Status())
	}

	now := time.Now().UTC()
	switch s.Status() {
	case settlement.StatusReady:
		if err = s.LockForPayout(cmd.Actor(), now); err != nil {
			return err
		}
		if err = settlementRepo.Update(ctx, s); err != nil {
			return err
		}
	case settlement.StatusLocked, settlement.StatusConfirmed:
	default:
		return fmt.Errorf("%w: settlement %s is %s", settlement.ErrInvalidStatus, s.ID(), s.Status())
	}

	payoutRepo := uow.PayoutRepository()
	active, err := payoutRepo.HasActive(ctx, s.ID())
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("%w: settlement %s", payout.ErrActivePayoutExists, s.ID())
	}

	p, err := payout.NewPayout(cmd.PayoutID(), s.ID(), s.OrderID(), s.HelperID(), s.Net(), cmd.Bank(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	if err = payoutRepo.Add(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
