package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrPolicyCommandIsNotConstructed = errors.New(
	"policy command must be created via its constructor",
)

// ChangeSettingCommand schedules a new value for a setting. Without an
// effective time, or with one that has passed, the value is applied at once.
type ChangeSettingCommand struct {
	changeID      kernel.UUID
	settingType   policy.SettingType
	entityID      string
	newValue      string
	effectiveFrom *time.Time
	reason        string
	actor         kernel.Actor

	guard guard.ConstructorGuard
}

func NewChangeSettingCommand(
	changeID kernel.UUID,
	settingType policy.SettingType,
	entityID, newValue string,
	effectiveFrom *time.Time,
	reason string,
	actor kernel.Actor,
) (ChangeSettingCommand, error) {
	if err := errors.Join(changeID.Validate(), settingType.Validate(), actor.Validate()); err != nil {
		return ChangeSettingCommand{}, err
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		entityID = policy.GlobalEntity
	}
	newValue = strings.TrimSpace(newValue)
	if newValue == "" {
		return ChangeSettingCommand{}, errs.NewValueIsRequiredError("value")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ChangeSettingCommand{}, errs.NewValueIsRequiredError("reason")
	}
	return ChangeSettingCommand{
		changeID:      changeID,
		settingType:   settingType,
		entityID:      entityID,
		newValue:      newValue,
		effectiveFrom: effectiveFrom,
		reason:        reason,
		actor:         actor,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeSettingCommand) Validate() error {
	return c.guard.Validate(ErrPolicyCommandIsNotConstructed)
}

func (c ChangeSettingCommand) ChangeID() kernel.UUID           { return c.changeID }
func (c ChangeSettingCommand) SettingType() policy.SettingType { return c.settingType }
func (c ChangeSettingCommand) EntityID() string                { return c.entityID }
func (c ChangeSettingCommand) NewValue() string                { return c.newValue }
func (c ChangeSettingCommand) EffectiveFrom() *time.Time       { return c.effectiveFrom }
func (c ChangeSettingCommand) Reason() string                  { return c.reason }
func (c ChangeSettingCommand) Actor() kernel.Actor             { return c.actor }

type ChangeSettingCommandHandler struct {
	uowFactory PolicyUoWFactory
	appliers   ports.ApplierRegistry
}

func NewChangeSettingCommandHandler(uowFactory PolicyUoWFactory, appliers ports.ApplierRegistry) ChangeSettingCommandHandler {
	return ChangeSettingCommandHandler{uowFactory: uowFactory, appliers: appliers}
}

func (h ChangeSettingCommandHandler) Handle(ctx context.Context, cmd ChangeSettingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	applier, err := lookupApplier(h.appliers, cmd.SettingType())
	if err != nil {
		return err
	}
	if err = applier.Validate(cmd.EntityID(), cmd.NewValue()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settings := uow.SettingRepository()
	current, _, err := settings.Get(ctx, cmd.SettingType(), cmd.EntityID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	c, err := policy.NewChange(
		cmd.ChangeID(),
		cmd.SettingType(),
		cmd.EntityID(),
		current,
		cmd.NewValue(),
		cmd.EffectiveFrom(),
		cmd.Reason(),
		cmd.Actor(),
		now,
	)
	if err != nil {
		return err
	}
	if c.IsDue(now) {
		if err = applier.Apply(ctx, settings, c.EntityID(), c.NewValue(), now); err != nil {
			return err
		}
		if err = c.Activate(current, now); err != nil {
			return err
		}
	}
	if err = uow.SettingChangeRepository().Add(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// CancelSettingChangeCommand withdraws a pending change.
type CancelSettingChangeCommand struct {
	changeID kernel.UUID
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewCancelSettingChangeCommand(changeID kernel.UUID, actor kernel.Actor) (CancelSettingChangeCommand, error) {
	if err := errors.Join(changeID.Validate(), actor.Validate()); err != nil {
		return CancelSettingChangeCommand{}, err
	}
	return CancelSettingChangeCommand{changeID: changeID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelSettingChangeCommand) Validate() error {
	return c.guard.Validate(ErrPolicyCommandIsNotConstructed)
}

func (c CancelSettingChangeCommand) ChangeID() kernel.UUID { return c.changeID }
func (c CancelSettingChangeCommand) Actor() kernel.Actor   { return c.actor }

type CancelSettingChangeCommandHandler struct {
	uowFactory PolicyUoWFactory
}

func NewCancelSettingChangeCommandHandler(uowFactory PolicyUoWFactory) CancelSettingChangeCommandHandler {
	return CancelSettingChangeCommandHandler{uowFactory: uowFactory}
}

func (h CancelSettingChangeCommandHandler) Handle(ctx context.Context, cmd CancelSettingChangeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	changes := uow.SettingChangeRepository()
	c, err := changes.Get(ctx, cmd.ChangeID())
	if err != nil {
		return err
	}
	if err = c.Cancel(cmd.Actor()); err != nil {
		return err
	}
	if err = changes.Update(ctx, c, policy.StatusPending); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// RollbackSettingChangeCommand restores the value an active change replaced.
// The rollback is itself recorded as a new active change.
type RollbackSettingChangeCommand struct {
	rollbackID kernel.UUID
	changeID   kernel.UUID
	reason     string
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

func NewRollbackSettingChangeCommand(rollbackID, changeID kernel.UUID, reason string, actor kernel.Actor) (RollbackSettingChangeCommand, error) {
	if err := errors.Join(rollbackID.Validate(), changeID.Validate(), actor.Validate()); err != nil {
		return RollbackSettingChangeCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return RollbackSettingChangeCommand{}, errs.NewValueIsRequiredError("reason")
	}
	return RollbackSettingChangeCommand{
		rollbackID: rollbackID,
		changeID:   changeID,
		reason:     reason,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RollbackSettingChangeCommand) Validate() error {
	return c.guard.Validate(ErrPolicyCommandIsNotConstructed)
}

func (c RollbackSettingChangeCommand) RollbackID() kernel.UUID { return c.rollbackID }
func (c RollbackSettingChangeCommand) ChangeID() kernel.UUID   { return c.changeID }
func (c RollbackSettingChangeCommand) Reason() string          { return c.reason }
func (c RollbackSettingChangeCommand) Actor() kernel.Actor     { return c.actor }

type RollbackSettingChangeCommandHandler struct {
	uowFactory PolicyUoWFactory
	appliers   ports.ApplierRegistry
}

func NewRollbackSettingChangeCommandHandler(uowFactory PolicyUoWFactory, appliers ports.ApplierRegistry) RollbackSettingChangeCommandHandler {
	return RollbackSettingChangeCommandHandler{uowFactory: uowFactory, appliers: appliers}
}

func (h RollbackSettingChangeCommandHandler) Handle(ctx context.Context, cmd RollbackSettingChangeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	changes := uow.SettingChangeRepository()
	original, err := changes.Get(ctx, cmd.ChangeID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rollback, err := policy.NewRollback(cmd.RollbackID(), original, cmd.Reason(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	latest, err := changes.LatestActive(ctx, original.SettingType(), original.EntityID())
	if err != nil {
		return err
	}
	if !latest.ID().IsEqual(original.ID()) {
		return fmt.Errorf("%w: %s is in force for %s/%s", policy.ErrSuperseded, latest.ID(), original.SettingType(), original.EntityID())
	}
	applier, err := lookupApplier(h.appliers, rollback.SettingType())
	if err != nil {
		return err
	}

	settings := uow.SettingRepository()
	current, _, err := settings.Get(ctx, rollback.SettingType(), rollback.EntityID())
	if err != nil {
		return err
	}
	if err = applier.Apply(ctx, settings, rollback.EntityID(), rollback.NewValue(), now); err != nil {
		return err
	}
	if err = rollback.Activate(current, now); err != nil {
		return err
	}

	if err = original.MarkRolledBack(); err != nil {
		return err
	}
	if err = changes.Update(ctx, original, policy.StatusActive); err != nil {
		return err
	}
	if err = changes.Add(ctx, rollback); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
