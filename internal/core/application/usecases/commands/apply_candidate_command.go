package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/guard"
)

var (
	ErrApplyCandidateCommandIsNotConstructed = errors.New(
		"ApplyCandidateCommand must be created via NewApplyCandidateCommand constructor",
	)

	// ErrOrderNotOpen is returned when candidates change on an order that does not take them.
	ErrOrderNotOpen = errors.New("order is not open for candidates")
)

// ApplyCandidateCommand registers a helper's application to an OPEN order.
//
// The order row is locked for the rest of the transaction and the active
// count is read under that lock, so concurrent applications cannot push an
// order past candidate.MaxActive.
type ApplyCandidateCommand struct {
	candidateID kernel.UUID
	orderID     kernel.UUID
	helperID    kernel.UUID
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

func NewApplyCandidateCommand(candidateID, orderID, helperID kernel.UUID, actor kernel.Actor) (ApplyCandidateCommand, error) {
	if err := errors.Join(candidateID.Validate(), orderID.Validate(), helperID.Validate(), actor.Validate()); err != nil {
		return ApplyCandidateCommand{}, err
	}
	return ApplyCandidateCommand{
		candidateID: candidateID,
		orderID:     orderID,
		helperID:    helperID,
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyCandidateCommand) Validate() error {
	return c.guard.Validate(ErrApplyCandidateCommandIsNotConstructed)
}

func (c ApplyCandidateCommand) CandidateID() kernel.UUID { return c.candidateID }
func (c ApplyCandidateCommand) OrderID() kernel.UUID     { return c.orderID }
func (c ApplyCandidateCommand) HelperID() kernel.UUID    { return c.helperID }
func (c ApplyCandidateCommand) Actor() kernel.Actor      { return c.actor }

type ApplyCandidateCommandHandler struct {
	uowFactory CandidateUoWFactory
}

func NewApplyCandidateCommandHandler(uowFactory CandidateUoWFactory) ApplyCandidateCommandHandler {
	return ApplyCandidateCommandHandler{uowFactory: uowFactory}
}

func (h ApplyCandidateCommandHandler) Handle(ctx context.Context, cmd ApplyCandidateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireParticipant(cmd.Actor(), cmd.HelperID(), "apply to order"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.Open {
		return fmt.Errorf("%w: order %s is %s", ErrOrderNotOpen, o.ID(), o.Status())
	}

	candidateRepo := uow.CandidateRepository()
	active, err := candidateRepo.CountActive(ctx, o.ID())
	if err != nil {
		return err
	}
	if err = candidate.CheckCapacity(active); err != nil {
		return err
	}

	existing, err := candidateRepo.ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c.IsActive() && c.HelperID().IsEqual(cmd.HelperID()) {
			return fmt.Errorf("%w: helper %s, order %s", candidate.ErrAlreadyApplied, cmd.HelperID(), o.ID())
		}
	}

	c, err := candidate.NewCandidate(cmd.CandidateID(), o.ID(), cmd.HelperID(), time.Now().UTC())
	if err != nil {
		return err
	}
	if err = candidateRepo.Add(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
