package commands

import (
	"context"
	"errors"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/guard"
)

var ErrOrderCommandIsNotConstructed = errors.New(
	"order command must be created via its constructor",
)

// orderCommand carries what every single-order lifecycle command needs.
type orderCommand struct {
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func newOrderCommand(orderID kernel.UUID, actor kernel.Actor) (orderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return orderCommand{}, err
	}
	return orderCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c orderCommand) Validate() error {
	return c.guard.Validate(ErrOrderCommandIsNotConstructed)
}

func (c orderCommand) OrderID() kernel.UUID { return c.orderID }
func (c orderCommand) Actor() kernel.Actor  { return c.actor }

// changeOrder loads an order, applies change and writes it back in one transaction.
func changeOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	change func(uow OrderUoW, o *order.Order) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if err = change(uow, o); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
