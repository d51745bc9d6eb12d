package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/services"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrSubmitClosingReportCommandIsNotConstructed = errors.New(
	"SubmitClosingReportCommand must be created via NewSubmitClosingReportCommand constructor",
)

// SubmitClosingReportCommand is the matched helper's report of the work done.
type SubmitClosingReportCommand struct {
	reportID     kernel.UUID
	orderID      kernel.UUID
	helperID     kernel.UUID
	counts       closing.Counts
	extraCosts   []pricing.ExtraCost
	evidenceRefs []string
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

func NewSubmitClosingReportCommand(
	reportID, orderID, helperID kernel.UUID,
	counts closing.Counts,
	extraCosts []pricing.ExtraCost,
	evidenceRefs []string,
	actor kernel.Actor,
) (SubmitClosingReportCommand, error) {
	if err := errors.Join(reportID.Validate(), orderID.Validate(), helperID.Validate(), actor.Validate()); err != nil {
		return SubmitClosingReportCommand{}, err
	}
	for _, ref := range evidenceRefs {
		if strings.TrimSpace(ref) == "" {
			return SubmitClosingReportCommand{}, errs.NewValueIsRequiredError("evidence reference")
		}
	}
	return SubmitClosingReportCommand{
		reportID:     reportID,
		orderID:      orderID,
		helperID:     helperID,
		counts:       counts,
		extraCosts:   append([]pricing.ExtraCost(nil), extraCosts...),
		evidenceRefs: append([]string(nil), evidenceRefs...),
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitClosingReportCommand) Validate() error {
	return c.guard.Validate(ErrSubmitClosingReportCommandIsNotConstructed)
}

func (c SubmitClosingReportCommand) ReportID() kernel.UUID           { return c.reportID }
func (c SubmitClosingReportCommand) OrderID() kernel.UUID            { return c.orderID }
func (c SubmitClosingReportCommand) HelperID() kernel.UUID           { return c.helperID }
func (c SubmitClosingReportCommand) Counts() closing.Counts          { return c.counts }
func (c SubmitClosingReportCommand) ExtraCosts() []pricing.ExtraCost { return c.extraCosts }
func (c SubmitClosingReportCommand) EvidenceRefs() []string          { return c.evidenceRefs }
func (c SubmitClosingReportCommand) Actor() kernel.Actor             { return c.actor }

type SubmitClosingReportCommandHandler struct {
	uowFactory ClosingUoWFactory
	calculator services.PricingCalculator
}

func NewSubmitClosingReportCommandHandler(uowFactory ClosingUoWFactory) SubmitClosingReportCommandHandler {
	return SubmitClosingReportCommandHandler{
		uowFactory: uowFactory,
		calculator: services.NewPricingCalculator(),
	}
}

func (h SubmitClosingReportCommandHandler) Handle(ctx context.Context, cmd SubmitClosingReportCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireParticipant(cmd.Actor(), cmd.HelperID(), "submit closing report"); err != nil {
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
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.InProgress {
		return &order.InvalidTransitionError{From: o.Status(), To: order.ClosingSubmitted}
	}
	if err = o.RequireMatchedHelper(cmd.HelperID()); err != nil {
		return err
	}

	submission, err := h.calculator.Estimate(pricing.Input{
		UnitPrice:    o.UnitPrice(),
		Delivered:    cmd.Counts().Delivered,
		Returned:     cmd.Counts().Returned,
		EtcCount:     cmd.Counts().EtcCount,
		EtcUnitPrice: cmd.Counts().EtcUnitPrice,
		ExtraCosts:   cmd.ExtraCosts(),
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	report, err := closing.NewReport(
		cmd.ReportID(),
		o.ID(),
		cmd.HelperID(),
		cmd.Counts(),
		cmd.ExtraCosts(),
		cmd.EvidenceRefs(),
		submission,
		now,
	)
	if err != nil {
		return err
	}
	if err = uow.ClosingReportRepository().Add(ctx, report); err != nil {
		return err
	}

	if err = o.Transition(order.ClosingSubmitted, "closing report submitted", cmd.Actor(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
