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

var ErrSelectCandidateCommandIsNotConstructed = errors.New(
	"SelectCandidateCommand must be created via NewSelectCandidateCommand constructor",
)

// SelectCandidateCommand picks an applied candidate. Once the order has as
// many selected helpers as it asked for, the remaining applied candidates
// are rejected and the order is scheduled.
type SelectCandidateCommand struct {
	orderID     kernel.UUID
	candidateID kernel.UUID
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

func NewSelectCandidateCommand(orderID, candidateID kernel.UUID, actor kernel.Actor) (SelectCandidateCommand, error) {
	if err := errors.Join(orderID.Validate(), candidateID.Validate(), actor.Validate()); err != nil {
		return SelectCandidateCommand{}, err
	}
	return SelectCandidateCommand{
		orderID:     orderID,
		candidateID: candidateID,
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c SelectCandidateCommand) Validate() error {
	return c.guard.Validate(ErrSelectCandidateCommandIsNotConstructed)
}

func (c SelectCandidateCommand) OrderID() kernel.UUID     { return c.orderID }
func (c SelectCandidateCommand) CandidateID() kernel.UUID { return c.candidateID }
func (c SelectCandidateCommand) Actor() kernel.Actor      { return c.actor }

type SelectCandidateCommandHandler struct {
	uowFactory CandidateUoWFactory
}

func NewSelectCandidateCommandHandler(uowFactory CandidateUoWFactory) SelectCandidateCommandHandler {
	return SelectCandidateCommandHandler{uowFactory: uowFactory}
}

func (h SelectCandidateCommandHandler) Handle(ctx context.Context, cmd SelectCandidateCommand) error {
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
	if err = requireParticipant(cmd.Actor(), o.RequesterID(), "select candidate"); err != nil {
		return err
	}
	if o.Status() != order.Open {
		return fmt.Errorf("%w: order %s is %s", ErrOrderNotOpen, o.ID(), o.Status())
	}

	candidateRepo := uow.CandidateRepository()
	chosen, err := candidateRepo.Get(ctx, cmd.CandidateID())
	if err != nil {
		return err
	}
	if !chosen.OrderID().IsEqual(o.ID()) {
		return errs.NewObjectNotFoundError("candidate", cmd.CandidateID().String())
	}

	now := time.Now().UTC()
	if err = chosen.Select(now); err != nil {
		return err
	}
	if err = candidateRepo.Update(ctx, chosen); err != nil {
		return err
	}

	scheduled, err := o.AssignHelper(chosen.HelperID(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	if scheduled {
		siblings, err := candidateRepo.ListByOrder(ctx, o.ID())
		if err != nil {
			return err
		}
		for _, c := range siblings {
			if c.ID().IsEqual(chosen.ID()) || c.Status() != candidate.StatusApplied {
				continue
			}
			if err = c.Reject(now); err != nil {
				return err
			}
			if err = candidateRepo.Update(ctx, c); err != nil {
				return err
			}
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
