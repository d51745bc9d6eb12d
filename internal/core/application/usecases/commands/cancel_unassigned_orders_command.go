package commands

import (
	"context"
	"log/slog"
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

const unassignedReason = "no helper assigned before the scheduled date"

// CancelUnassignedOrdersCommandHandler settles open orders whose scheduled
// date passed. Orders nobody was selected for are cancelled, the paid
// deposit is recorded as a refund and the requester hears about it through
// the status change notification sent after commit. Orders with some but not
// all helper slots filled go ahead with the selected helpers.
type CancelUnassignedOrdersCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewCancelUnassignedOrdersCommandHandler(uowFactory UoWFactory, logger *slog.Logger) CancelUnassignedOrdersCommandHandler {
	return CancelUnassignedOrdersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "cancel_unassigned_orders"),
	}
}

func (h CancelUnassignedOrdersCommandHandler) Handle(ctx context.Context, cmd SweepCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	cutoff := scheduleCutoff(cmd.Now())
	ids, err := h.uowFactory.Create().OrderRepository().FindIDs(ctx, ports.OrderFilter{
		Status:          order.Open,
		ScheduledBefore: &cutoff,
	})
	if err != nil {
		return SweepResult{}, err
	}

	actor := kernel.SystemActor("cancel_unassigned_orders")
	return runSweep(ctx, h.logger, ids, func(ctx context.Context, id kernel.UUID) (bool, error) {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return false, err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		orderRepo := uow.OrderRepository()
		o, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return false, err
		}
		if o.Status() != order.Open || !o.ScheduledDate().Before(cutoff) {
			return false, nil
		}
		if o.CurrentHelpers() > 0 {
			err = scheduleShortStaffed(ctx, uow, o, actor, cmd.Now())
		} else {
			err = cancelOrder(ctx, uow, o, unassignedReason, actor, cmd.Now())
		}
		if err != nil {
			return false, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return false, err
		}
		return true, uow.Commit(ctx)
	}), nil
}

// scheduleShortStaffed schedules o with its selected helpers and turns the
// remaining applications down.
func scheduleShortStaffed(ctx context.Context, uow UoW, o *order.Order, actor kernel.Actor, at time.Time) error {
	if err := o.ScheduleShortStaffed(actor, at); err != nil {
		return err
	}
	candidateRepo := uow.CandidateRepository()
	candidates, err := candidateRepo.ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if c.Status() != candidate.StatusApplied {
			continue
		}
		if err = c.Reject(at); err != nil {
			return err
		}
		if err = candidateRepo.Update(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
