package commands

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
)

// StartWorkCommand moves a SCHEDULED order to IN_PROGRESS when the matched
// helper begins the job.
type StartWorkCommand struct {
	orderCommand
	helperID kernel.UUID
}

func NewStartWorkCommand(orderID, helperID kernel.UUID, actor kernel.Actor) (StartWorkCommand, error) {
	if err := helperID.Validate(); err != nil {
		return StartWorkCommand{}, err
	}
	base, err := newOrderCommand(orderID, actor)
	if err != nil {
		return StartWorkCommand{}, err
	}
	return StartWorkCommand{orderCommand: base, helperID: helperID}, nil
}

func (c StartWorkCommand) HelperID() kernel.UUID { return c.helperID }

type StartWorkCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewStartWorkCommandHandler(uowFactory OrderUoWFactory) StartWorkCommandHandler {
	return StartWorkCommandHandler{uowFactory: uowFactory}
}

func (h StartWorkCommandHandler) Handle(ctx context.Context, cmd StartWorkCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireParticipant(cmd.Actor(), cmd.HelperID(), "start work"); err != nil {
		return err
	}
	return changeOrder(ctx, h.uowFactory, cmd.OrderID(), func(_ OrderUoW, o *order.Order) error {
		if err := o.RequireMatchedHelper(cmd.HelperID()); err != nil {
			return err
		}
		return o.Transition(order.InProgress, "work started", cmd.Actor(), time.Now().UTC())
	})
}
