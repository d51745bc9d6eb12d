package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrSettlementCommandIsNotConstructed = errors.New(
	"settlement command must be created via its constructor",
)

// SettlementAction names a privileged status change of a settlement.
type SettlementAction string

const (
	SettlementLock    SettlementAction = "lock"
	SettlementUnlock  SettlementAction = "unlock"
	SettlementConfirm SettlementAction = "confirm"
)

func (a SettlementAction) Validate() error {
	switch a {
	case SettlementLock, SettlementUnlock, SettlementConfirm:
		return nil
	}
	return errs.NewValueIsInvalidError("settlement action")
}

// ChangeSettlementStatusCommand locks, unlocks or confirms a settlement.
type ChangeSettlementStatusCommand struct {
	settlementID kernel.UUID
	action       SettlementAction
	reason       string
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

func NewChangeSettlementStatusCommand(
	settlementID kernel.UUID,
	action SettlementAction,
	reason string,
	actor kernel.Actor,
) (ChangeSettlementStatusCommand, error) {
	if err := errors.Join(settlementID.Validate(), action.Validate(), actor.Validate()); err != nil {
		return ChangeSettlementStatusCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ChangeSettlementStatusCommand{}, errs.NewValueIsRequiredError("reason")
	}
	return ChangeSettlementStatusCommand{
		settlementID: settlementID,
		action:       action,
		reason:       reason,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeSettlementStatusCommand) Validate() error {
	return c.guard.Validate(ErrSettlementCommandIsNotConstructed)
}

func (c ChangeSettlementStatusCommand) SettlementID() kernel.UUID { return c.settlementID }
func (c ChangeSettlementStatusCommand) Action() SettlementAction  { return c.action }
func (c ChangeSettlementStatusCommand) Reason() string            { return c.reason }
func (c ChangeSettlementStatusCommand) Actor() kernel.Actor       { return c.actor }

type ChangeSettlementStatusCommandHandler struct {
	uowFactory SettlementUoWFactory
}

func NewChangeSettlementStatusCommandHandler(uowFactory SettlementUoWFactory) ChangeSettlementStatusCommandHandler {
	return ChangeSettlementStatusCommandHandler{uowFactory: uowFactory}
}

func (h ChangeSettlementStatusCommandHandler) Handle(ctx context.Context, cmd ChangeSettlementStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changeSettlement(ctx, h.uowFactory, cmd.SettlementID(), func(s *settlement.Settlement) error {
		now := time.Now().UTC()
		switch cmd.Action() {
		case SettlementLock:
			return s.Lock(cmd.Reason(), cmd.Actor(), now)
		case SettlementUnlock:
			return s.Unlock(cmd.Reason(), cmd.Actor(), now)
		default:
			return s.Confirm(cmd.Reason(), cmd.Actor(), now)
		}
	})
}

// EditSettlementAmountCommand corrects one amount of an unlocked settlement.
type EditSettlementAmountCommand struct {
	settlementID kernel.UUID
	field        settlement.Field
	value        int64
	reason       string
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

func NewEditSettlementAmountCommand(
	settlementID kernel.UUID,
	field settlement.Field,
	value int64,
	reason string,
	actor kernel.Actor,
) (EditSettlementAmountCommand, error) {
	if err := errors.Join(settlementID.Validate(), actor.Validate()); err != nil {
		return EditSettlementAmountCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return EditSettlementAmountCommand{}, errs.NewValueIsRequiredError("reason")
	}
	return EditSettlementAmountCommand{
		settlementID: settlementID,
		field:        field,
		value:        value,
		reason:       reason,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c EditSettlementAmountCommand) Validate() error {
	return c.guard.Validate(ErrSettlementCommandIsNotConstructed)
}

func (c EditSettlementAmountCommand) SettlementID() kernel.UUID { return c.settlementID }
func (c EditSettlementAmountCommand) Field() settlement.Field   { return c.field }
func (c EditSettlementAmountCommand) Value() int64              { return c.value }
func (c EditSettlementAmountCommand) Reason() string            { return c.reason }
func (c EditSettlementAmountCommand) Actor() kernel.Actor       { return c.actor }

type EditSettlementAmountCommandHandler struct {
	uowFactory SettlementUoWFactory
}

func NewEditSettlementAmountCommandHandler(uowFactory SettlementUoWFactory) EditSettlementAmountCommandHandler {
	return EditSettlementAmountCommandHandler{uowFactory: uowFactory}
}

func (h EditSettlementAmountCommandHandler) Handle(ctx context.Context, cmd EditSettlementAmountCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changeSettlement(ctx, h.uowFactory, cmd.SettlementID(), func(s *settlement.Settlement) error {
		return s.EditAmount(cmd.Field(), cmd.Value(), cmd.Reason(), cmd.Actor(), time.Now().UTC())
	})
}

func changeSettlement(
	ctx context.Context,
	uowFactory SettlementUoWFactory,
	settlementID kernel.UUID,
	change func(s *settlement.Settlement) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettlementRepository()
	s, err := repo.Get(ctx, settlementID)
	if err != nil {
		return err
	}
	if err = change(s); err != nil {
		return err
	}
	if err = repo.Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
