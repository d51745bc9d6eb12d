package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrRemoveCandidateCommandIsNotConstructed = errors.New(
	"RemoveCandidateCommand must be created via NewRemoveCandidateCommand constructor",
)

// RemoveCandidateCommand withdraws a helper from an OPEN or SCHEDULED order.
// Removing a selected helper frees the slot; a scheduled order that is no
// longer fully staffed goes back to OPEN.
type RemoveCandidateCommand struct {
	orderID  kernel.UUID
	helperID kernel.UUID
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewRemoveCandidateCommand(orderID, helperID kernel.UUID, actor kernel.Actor) (RemoveCandidateCommand, error) {
	if err := errors.Join(orderID.Validate(), helperID.Validate(), actor.Validate()); err != nil {
		return RemoveCandidateCommand{}, err
	}
	return RemoveCandidateCommand{
		orderID:  orderID,
		helperID: helperID,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveCandidateCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCandidateCommandIsNotConstructed)
}

func (c RemoveCandidateCommand) OrderID() kernel.UUID  { return c.orderID }
func (c RemoveCandidateCommand) HelperID() kernel.UUID { return c.helperID }
func (c RemoveCandidateCommand) Actor() kernel.Actor   { return c.actor }

type RemoveCandidateCommandHandler struct {
	uowFactory CandidateUoWFactory
}

func NewRemoveCandidateCommandHandler(uowFactory CandidateUoWFactory) RemoveCandidateCommandHandler {
	return RemoveCandidateCommandHandler{uowFactory: uowFactory}
}

func (h RemoveCandidateCommandHandler) Handle(ctx context.Context, cmd RemoveCandidateCommand) error {
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if cmd.Actor().ID() != cmd.HelperID().String() {
		if err = requireParticipant(cmd.Actor(), o.RequesterID(), "remove candidate"); err != nil {
			return err
		}
	}
	if !o.Status().Is(order.Open, order.Scheduled) {
		return fmt.Errorf("%w: order %s is %s", ErrOrderNotOpen, o.ID(), o.Status())
	}

	candidateRepo := uow.CandidateRepository()
	candidates, err := candidateRepo.ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}

	var removed *candidate.Candidate
	var nextMatched *kernel.UUID
	for _, c := range candidates {
		switch {
		case c.IsActive() && c.HelperID().IsEqual(cmd.HelperID()):
			removed = c
		case c.Status() == candidate.StatusSelected && nextMatched == nil:
			helperID := c.HelperID()
			nextMatched = &helperID
		}
	}
	if removed == nil {
		return errs.NewObjectNotFoundError("candidate", cmd.HelperID().String())
	}

	now := time.Now().UTC()
	wasSelected := removed.Status() == candidate.StatusSelected
	if err = removed.Reject(now); err != nil {
		return err
	}
	if err = candidateRepo.Update(ctx, removed); err != nil {
		return err
	}

	if wasSelected {
		if err = o.ReleaseHelper(cmd.HelperID(), nextMatched, cmd.Actor(), now); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
