package commands

import (
	"context"
	"errors"
	"log/slog"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
)

// ApplyIncidentDeductionsCommandHandler charges unanswered incidents to the
// helper's settlement. The incident flag flip and the deduction commit
// together; a locked settlement fails the incident and leaves it open for
// the next pass.
type ApplyIncidentDeductionsCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewApplyIncidentDeductionsCommandHandler(uowFactory UoWFactory, logger *slog.Logger) ApplyIncidentDeductionsCommandHandler {
	return ApplyIncidentDeductionsCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "apply_incident_deductions"),
	}
}

func (h ApplyIncidentDeductionsCommandHandler) Handle(ctx context.Context, cmd SweepCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	ids, err := h.uowFactory.Create().IncidentRepository().FindDueIDs(ctx, cmd.Now())
	if err != nil {
		return SweepResult{}, err
	}

	actor := kernel.SystemActor("apply_incident_deductions")
	return runSweep(ctx, h.logger, ids, func(ctx context.Context, id kernel.UUID) (bool, error) {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return false, err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		incidents := uow.IncidentRepository()
		i, err := incidents.Get(ctx, id)
		if err != nil {
			return false, err
		}
		if !i.IsDeductionDue(cmd.Now()) {
			return false, nil
		}

		settlementRepo := uow.SettlementRepository()
		s, err := settlementRepo.GetByOrderAndHelper(ctx, i.OrderID(), i.HelperID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			h.logger.InfoContext(ctx, "no settlement to deduct from yet", "incident_id", id.String())
			return false, nil
		}
		if err != nil {
			return false, err
		}

		if err = i.MarkDeductionApplied(cmd.Now()); err != nil {
			return false, err
		}
		flipped, err := incidents.MarkDeductionApplied(ctx, i)
		if err != nil || !flipped {
			return false, err
		}

		if err = s.ApplyDeduction(i.DeductionAmount(), "incident "+i.ID().String(), actor, cmd.Now()); err != nil {
			return false, err
		}
		if err = settlementRepo.Update(ctx, s); err != nil {
			return false, err
		}
		return true, uow.Commit(ctx)
	}), nil
}
