package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/pkg/guard"
)

var ErrRetryPayoutCommandIsNotConstructed = errors.New(
	"RetryPayoutCommand must be created via NewRetryPayoutCommand constructor",
)

// RetryPayoutCommand requests a failed payout again. Two concurrent retries
// of the same payout race on its version; the loser gets a conflict.
type RetryPayoutCommand struct {
	payoutID kernel.UUID
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewRetryPayoutCommand(payoutID kernel.UUID, actor kernel.Actor) (RetryPayoutCommand, error) {
	if err := errors.Join(payoutID.Validate(), actor.Validate()); err != nil {
		return RetryPayoutCommand{}, err
	}
	return RetryPayoutCommand{payoutID: payoutID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c RetryPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRetryPayoutCommandIsNotConstructed)
}

func (c RetryPayoutCommand) PayoutID() kernel.UUID { return c.payoutID }
func (c RetryPayoutCommand) Actor() kernel.Actor   { return c.actor }

type RetryPayoutCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewRetryPayoutCommandHandler(uowFactory PayoutUoWFactory) RetryPayoutCommandHandler {
	return RetryPayoutCommandHandler{uowFactory: uowFactory}
}

func (h RetryPayoutCommandHandler) Handle(ctx context.Context, cmd RetryPayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(kernel.PermissionManagePayout, "retry payout"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payoutRepo := uow.PayoutRepository()
	p, err := payoutRepo.Get(ctx, cmd.PayoutID())
	if err != nil {
		return err
	}
	if err = p.Retry(cmd.Actor(), time.Now().UTC()); err != nil {
		return err
	}

	active, err := payoutRepo.HasActive(ctx, p.SettlementID())
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("%w: settlement %s", payout.ErrActivePayoutExists, p.SettlementID())
	}
	if err = payoutRepo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
