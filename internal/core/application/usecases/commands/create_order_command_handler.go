package commands

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/services"
)

// CreateOrderCommandHandler posts orders in AWAITING_DEPOSIT with the
// deposit estimated from the rates currently in force.
type CreateOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	defaultRates pricing.Rates
	calculator   services.PricingCalculator
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, defaultRates pricing.Rates) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:   uowFactory,
		defaultRates: defaultRates,
		calculator:   services.NewPricingCalculator(),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireParticipant(cmd.Actor(), cmd.RequesterID(), "post order"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	rates, err := resolveRates(ctx, uow.SettingRepository(), nil, h.defaultRates)
	if err != nil {
		return err
	}
	deposit, err := h.calculator.DepositFor(cmd.UnitPrice(), cmd.Quantity(), rates)
	if err != nil {
		return err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.RequesterID(),
		cmd.UnitPrice(),
		cmd.Quantity(),
		cmd.ScheduledDate(),
		cmd.MaxHelpers(),
		deposit,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
