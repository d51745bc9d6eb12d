package commands

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
)

// ConfirmDepositCommand records the requester's deposit and opens the order
// for applications.
type ConfirmDepositCommand struct {
	orderCommand
}

func NewConfirmDepositCommand(orderID kernel.UUID, actor kernel.Actor) (ConfirmDepositCommand, error) {
	base, err := newOrderCommand(orderID, actor)
	if err != nil {
		return ConfirmDepositCommand{}, err
	}
	return ConfirmDepositCommand{orderCommand: base}, nil
}

type ConfirmDepositCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewConfirmDepositCommandHandler(uowFactory OrderUoWFactory) ConfirmDepositCommandHandler {
	return ConfirmDepositCommandHandler{uowFactory: uowFactory}
}

func (h ConfirmDepositCommandHandler) Handle(ctx context.Context, cmd ConfirmDepositCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changeOrder(ctx, h.uowFactory, cmd.OrderID(), func(_ OrderUoW, o *order.Order) error {
		if err := requireParticipant(cmd.Actor(), o.RequesterID(), "confirm deposit"); err != nil {
			return err
		}
		return o.ConfirmDeposit(cmd.Actor(), time.Now().UTC())
	})
}
