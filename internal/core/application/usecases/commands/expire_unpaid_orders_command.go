package commands

import (
	"context"
	"log/slog"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

const expiredReason = "expired"

// ExpireUnpaidOrdersCommandHandler cancels and hides orders whose deposit
// never arrived before the scheduled date passed.
type ExpireUnpaidOrdersCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewExpireUnpaidOrdersCommandHandler(uowFactory UoWFactory, logger *slog.Logger) ExpireUnpaidOrdersCommandHandler {
	return ExpireUnpaidOrdersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "expire_unpaid_orders"),
	}
}

func (h ExpireUnpaidOrdersCommandHandler) Handle(ctx context.Context, cmd SweepCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	cutoff := scheduleCutoff(cmd.Now())
	ids, err := h.uowFactory.Create().OrderRepository().FindIDs(ctx, ports.OrderFilter{
		Status:          order.AwaitingDeposit,
		ScheduledBefore: &cutoff,
	})
	if err != nil {
		return SweepResult{}, err
	}

	actor := kernel.SystemActor("expire_unpaid_orders")
	return runSweep(ctx, h.logger, ids, func(ctx context.Context, id kernel.UUID) (bool, error) {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return false, err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		orderRepo := uow.OrderRepository()
		o, err := orderRepo.Get(ctx, id)
		if err != nil {
			return false, err
		}
		if o.Status() != order.AwaitingDeposit || !o.ScheduledDate().Before(cutoff) {
			return false, nil
		}
		if err = cancelOrder(ctx, uow, o, expiredReason, actor, cmd.Now()); err != nil {
			return false, err
		}
		o.Hide(cmd.Now())
		if err = orderRepo.Update(ctx, o); err != nil {
			return false, err
		}
		return true, uow.Commit(ctx)
	}), nil
}
