package commands

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/settlement"
)

// ConfirmBalancePaymentCommand records the requester's balance payment. The
// order moves to BALANCE_PAID and its PENDING settlements become READY. An
// order whose settlements were all paid already moves on to SETTLEMENT_PAID.
type ConfirmBalancePaymentCommand struct {
	orderCommand
}

func NewConfirmBalancePaymentCommand(orderID kernel.UUID, actor kernel.Actor) (ConfirmBalancePaymentCommand, error) {
	base, err := newOrderCommand(orderID, actor)
	if err != nil {
		return ConfirmBalancePaymentCommand{}, err
	}
	return ConfirmBalancePaymentCommand{orderCommand: base}, nil
}

type ConfirmBalancePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewConfirmBalancePaymentCommandHandler(uowFactory OrderUoWFactory) ConfirmBalancePaymentCommandHandler {
	return ConfirmBalancePaymentCommandHandler{uowFactory: uowFactory}
}

func (h ConfirmBalancePaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmBalancePaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changeOrder(ctx, h.uowFactory, cmd.OrderID(), func(uow OrderUoW, o *order.Order) error {
		if err := requireParticipant(cmd.Actor(), o.RequesterID(), "confirm balance payment"); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := o.PayBalance(cmd.Actor(), now); err != nil {
			return err
		}

		settlementRepo := uow.SettlementRepository()
		settlements, err := settlementRepo.ListByOrder(ctx, o.ID())
		if err != nil {
			return err
		}
		allPaid := len(settlements) > 0
		for _, s := range settlements {
			if s.Status() != settlement.StatusPaid {
				allPaid = false
			}
			if !s.MarkReady(cmd.Actor(), now) {
				continue
			}
			if err = settlementRepo.Update(ctx, s); err != nil {
				return err
			}
		}
		if allPaid {
			return o.Transition(order.SettlementPaid, "all settlements paid", cmd.Actor(), now)
		}
		return nil
	})
}
