package commands

import (
	"context"
	"log/slog"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

// HideClosedAfter is how long a closed order stays listed.
const HideClosedAfter = 24 * time.Hour

// HideClosedOrdersCommandHandler hides orders closed more than a day ago.
type HideClosedOrdersCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewHideClosedOrdersCommandHandler(uowFactory UoWFactory, logger *slog.Logger) HideClosedOrdersCommandHandler {
	return HideClosedOrdersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "hide_closed_orders"),
	}
}

func (h HideClosedOrdersCommandHandler) Handle(ctx context.Context, cmd SweepCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	cutoff := cmd.Now().Add(-HideClosedAfter)
	ids, err := h.uowFactory.Create().OrderRepository().FindIDs(ctx, ports.OrderFilter{
		Status:       order.Closed,
		ClosedBefore: &cutoff,
		VisibleOnly:  true,
	})
	if err != nil {
		return SweepResult{}, err
	}

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
		if o.Status() != order.Closed || o.ClosedAt() == nil || !o.ClosedAt().Before(cutoff) {
			return false, nil
		}
		if !o.Hide(cmd.Now()) {
			return false, nil
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return false, err
		}
		return true, uow.Commit(ctx)
	}), nil
}
