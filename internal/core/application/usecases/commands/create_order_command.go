package commands

import (
	"errors"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand posts a new delivery job on behalf of a requester.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), requesterID, 1200, 100, date, 1, actor)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to post order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	requesterID   kernel.UUID
	unitPrice     int64
	quantity      int
	scheduledDate time.Time
	maxHelpers    int
	actor         kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the posting. maxHelpers of 0 means one helper.
func NewCreateOrderCommand(
	orderID, requesterID kernel.UUID,
	unitPrice int64,
	quantity int,
	scheduledDate time.Time,
	maxHelpers int,
	actor kernel.Actor,
) (CreateOrderCommand, error) {
	if maxHelpers == 0 {
		maxHelpers = 1
	}
	cmd := CreateOrderCommand{
		orderID:       orderID,
		requesterID:   requesterID,
		unitPrice:     unitPrice,
		quantity:      quantity,
		scheduledDate: scheduledDate,
		maxHelpers:    maxHelpers,
		actor:         actor,
		guard:         guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		orderID.Validate(),
		requesterID.Validate(),
		actor.Validate(),
		cmd.validateAmounts(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CreateOrderCommand) RequesterID() kernel.UUID { return c.requesterID }
func (c CreateOrderCommand) UnitPrice() int64         { return c.unitPrice }
func (c CreateOrderCommand) Quantity() int            { return c.quantity }
func (c CreateOrderCommand) ScheduledDate() time.Time { return c.scheduledDate }
func (c CreateOrderCommand) MaxHelpers() int          { return c.maxHelpers }
func (c CreateOrderCommand) Actor() kernel.Actor      { return c.actor }

func (c *CreateOrderCommand) validateAmounts() error {
	var all []error
	if c.unitPrice <= 0 {
		all = append(all, errs.NewValueIsOutOfRangeError("unitPrice", c.unitPrice, 1, "unbounded"))
	}
	if c.quantity <= 0 {
		all = append(all, errs.NewValueIsOutOfRangeError("quantity", c.quantity, 1, "unbounded"))
	}
	if c.scheduledDate.IsZero() {
		all = append(all, errs.NewValueIsRequiredError("scheduledDate"))
	}
	return errors.Join(all...)
}
