package commands

import (
	"context"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/errs"
)

// TransitionOrderCommand is the operator's manual status change. Edges
// outside the declared graph need the override permission and are flagged
// on the status event.
type TransitionOrderCommand struct {
	orderCommand
	target order.Status
	reason string
}

func NewTransitionOrderCommand(orderID kernel.UUID, target order.Status, reason string, actor kernel.Actor) (TransitionOrderCommand, error) {
	if err := target.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return TransitionOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}
	base, err := newOrderCommand(orderID, actor)
	if err != nil {
		return TransitionOrderCommand{}, err
	}
	return TransitionOrderCommand{orderCommand: base, target: target, reason: reason}, nil
}

func (c TransitionOrderCommand) Target() order.Status { return c.target }
func (c TransitionOrderCommand) Reason() string       { return c.reason }

type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{uowFactory: uowFactory}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.Actor().Role() != kernel.RoleAdmin {
		return errs.NewForbiddenError("transition order", cmd.Actor().String())
	}
	return changeOrder(ctx, h.uowFactory, cmd.OrderID(), func(_ OrderUoW, o *order.Order) error {
		return o.Transition(cmd.Target(), cmd.Reason(), cmd.Actor(), time.Now().UTC())
	})
}
