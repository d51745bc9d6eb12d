package commands

import (
	"context"
	"errors"
	"time"

	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrIncidentCommandIsNotConstructed = errors.New(
	"incident command must be created via its constructor",
)

// ReportIncidentCommand opens an incident against a helper of an order. If
// the helper does not answer before the deadline the deduction sweep
// charges the amount to the helper's settlement.
type ReportIncidentCommand struct {
	incidentID  kernel.UUID
	orderID     kernel.UUID
	helperID    kernel.UUID
	amount      int64
	description string
	deadline    time.Time
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

func NewReportIncidentCommand(
	incidentID, orderID, helperID kernel.UUID,
	amount int64,
	description string,
	deadline time.Time,
	actor kernel.Actor,
) (ReportIncidentCommand, error) {
	if err := errors.Join(incidentID.Validate(), orderID.Validate(), helperID.Validate(), actor.Validate()); err != nil {
		return ReportIncidentCommand{}, err
	}
	if deadline.IsZero() {
		return ReportIncidentCommand{}, errs.NewValueIsRequiredError("deadline")
	}
	return ReportIncidentCommand{
		incidentID:  incidentID,
		orderID:     orderID,
		helperID:    helperID,
		amount:      amount,
		description: description,
		deadline:    deadline,
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ReportIncidentCommand) Validate() error {
	return c.guard.Validate(ErrIncidentCommandIsNotConstructed)
}

func (c ReportIncidentCommand) IncidentID() kernel.UUID { return c.incidentID }
func (c ReportIncidentCommand) OrderID() kernel.UUID    { return c.orderID }
func (c ReportIncidentCommand) HelperID() kernel.UUID   { return c.helperID }
func (c ReportIncidentCommand) Amount() int64           { return c.amount }
func (c ReportIncidentCommand) Description() string     { return c.description }
func (c ReportIncidentCommand) Deadline() time.Time     { return c.deadline }
func (c ReportIncidentCommand) Actor() kernel.Actor     { return c.actor }

type ReportIncidentCommandHandler struct {
	uowFactory IncidentUoWFactory
}

func NewReportIncidentCommandHandler(uowFactory IncidentUoWFactory) ReportIncidentCommandHandler {
	return ReportIncidentCommandHandler{uowFactory: uowFactory}
}

func (h ReportIncidentCommandHandler) Handle(ctx context.Context, cmd ReportIncidentCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = requireParticipant(cmd.Actor(), o.RequesterID(), "report incident"); err != nil {
		return err
	}

	i, err := incident.NewIncident(
		cmd.IncidentID(),
		o.ID(),
		cmd.HelperID(),
		cmd.Amount(),
		cmd.Description(),
		cmd.Deadline(),
		cmd.Actor(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if err = uow.IncidentRepository().Add(ctx, i); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ResolveIncidentCommand closes an incident without a deduction.
type ResolveIncidentCommand struct {
	incidentID kernel.UUID
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

func NewResolveIncidentCommand(incidentID kernel.UUID, actor kernel.Actor) (ResolveIncidentCommand, error) {
	if err := errors.Join(incidentID.Validate(), actor.Validate()); err != nil {
		return ResolveIncidentCommand{}, err
	}
	return ResolveIncidentCommand{incidentID: incidentID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c ResolveIncidentCommand) Validate() error {
	return c.guard.Validate(ErrIncidentCommandIsNotConstructed)
}

func (c ResolveIncidentCommand) IncidentID() kernel.UUID { return c.incidentID }
func (c ResolveIncidentCommand) Actor() kernel.Actor     { return c.actor }

type ResolveIncidentCommandHandler struct {
	uowFactory IncidentUoWFactory
}

func NewResolveIncidentCommandHandler(uowFactory IncidentUoWFactory) ResolveIncidentCommandHandler {
	return ResolveIncidentCommandHandler{uowFactory: uowFactory}
}

func (h ResolveIncidentCommandHandler) Handle(ctx context.Context, cmd ResolveIncidentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.Actor().Role() != kernel.RoleAdmin {
		return errs.NewForbiddenError("resolve incident", cmd.Actor().String())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	incidents := uow.IncidentRepository()
	i, err := incidents.Get(ctx, cmd.IncidentID())
	if err != nil {
		return err
	}
	if err = i.Resolve(); err != nil {
		return err
	}
	if err = incidents.Resolve(ctx, i); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
