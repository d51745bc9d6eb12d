package commands

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
)

// CloseOrderCommand closes a fully settled order. Closed orders are hidden
// from listings a day later by the reconciliation sweep.
type CloseOrderCommand struct {
	orderCommand
}

func NewCloseOrderCommand(orderID kernel.UUID, actor kernel.Actor) (CloseOrderCommand, error) {
	base, err := newOrderCommand(orderID, actor)
	if err != nil {
		return CloseOrderCommand{}, err
	}
	return CloseOrderCommand{orderCommand: base}, nil
}

type CloseOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCloseOrderCommandHandler(uowFactory OrderUoWFactory) CloseOrderCommandHandler {
	return CloseOrderCommandHandler{uowFactory: uowFactory}
}

func (h CloseOrderCommandHandler) Handle(ctx context.Context, cmd CloseOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changeOrder(ctx, h.uowFactory, cmd.OrderID(), func(_ OrderUoW, o *order.Order) error {
		if err := requireParticipant(cmd.Actor(), o.RequesterID(), "close order"); err != nil {
			return err
		}
		return o.Transition(order.Closed, "order closed", cmd.Actor(), time.Now().UTC())
	})
}
