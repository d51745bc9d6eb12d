package commands

import (
	"context"
	"log/slog"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/ports"
)

// ActivateDueSettingChangesCommandHandler puts pending setting changes in
// force once their effective time arrives. The pending to active update is
// conditional, so overlapping runs apply every change once.
type ActivateDueSettingChangesCommandHandler struct {
	uowFactory PolicyUoWFactory
	appliers   ports.ApplierRegistry
	logger     *slog.Logger
}

func NewActivateDueSettingChangesCommandHandler(
	uowFactory PolicyUoWFactory,
	appliers ports.ApplierRegistry,
	logger *slog.Logger,
) ActivateDueSettingChangesCommandHandler {
	return ActivateDueSettingChangesCommandHandler{
		uowFactory: uowFactory,
		appliers:   appliers,
		logger:     logger.With("component", "activate_setting_changes"),
	}
}

func (h ActivateDueSettingChangesCommandHandler) Handle(ctx context.Context, cmd SweepCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	ids, err := h.uowFactory.Create().SettingChangeRepository().FindDueIDs(ctx, cmd.Now())
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

		changes := uow.SettingChangeRepository()
		c, err := changes.Get(ctx, id)
		if err != nil {
			return false, err
		}
		if !c.IsDue(cmd.Now()) {
			return false, nil
		}
		applier, err := lookupApplier(h.appliers, c.SettingType())
		if err != nil {
			return false, err
		}

		settings := uow.SettingRepository()
		current, _, err := settings.Get(ctx, c.SettingType(), c.EntityID())
		if err != nil {
			return false, err
		}
		if err = applier.Apply(ctx, settings, c.EntityID(), c.NewValue(), cmd.Now()); err != nil {
			return false, err
		}
		if err = c.Activate(current, cmd.Now()); err != nil {
			return false, err
		}
		if err = changes.Update(ctx, c, policy.StatusPending); err != nil {
			return false, err
		}
		return true, uow.Commit(ctx)
	}), nil
}
