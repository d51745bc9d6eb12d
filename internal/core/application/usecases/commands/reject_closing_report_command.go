package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrRejectClosingReportCommandIsNotConstructed = errors.New(
	"RejectClosingReportCommand must be created via NewRejectClosingReportCommand constructor",
)

// RejectClosingReportCommand sends a report back; the order returns to IN_PROGRESS.
type RejectClosingReportCommand struct {
	reportID kernel.UUID
	reason   string
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewRejectClosingReportCommand(reportID kernel.UUID, reason string, actor kernel.Actor) (RejectClosingReportCommand, error) {
	if err := errors.Join(reportID.Validate(), actor.Validate()); err != nil {
		return RejectClosingReportCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return RejectClosingReportCommand{}, errs.NewValueIsRequiredError("reason")
	}
	return RejectClosingReportCommand{
		reportID: reportID,
		reason:   reason,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RejectClosingReportCommand) Validate() error {
	return c.guard.Validate(ErrRejectClosingReportCommandIsNotConstructed)
}

func (c RejectClosingReportCommand) ReportID() kernel.UUID { return c.reportID }
func (c RejectClosingReportCommand) Reason() string        { return c.reason }
func (c RejectClosingReportCommand) Actor() kernel.Actor   { return c.actor }

type RejectClosingReportCommandHandler struct {
	uowFactory ClosingUoWFactory
}

func NewRejectClosingReportCommandHandler(uowFactory ClosingUoWFactory) RejectClosingReportCommandHandler {
	return RejectClosingReportCommandHandler{uowFactory: uowFactory}
}

func (h RejectClosingReportCommandHandler) Handle(ctx context.Context, cmd RejectClosingReportCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(kernel.PermissionReviewClosing, "reject closing report"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reportRepo := uow.ClosingReportRepository()
	report, err := reportRepo.Get(ctx, cmd.ReportID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = report.Reject(cmd.Reason(), cmd.Actor(), now); err != nil {
		return err
	}
	if err = reportRepo.Update(ctx, report); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, report.OrderID())
	if err != nil {
		return err
	}
	if err = o.Transition(order.InProgress, "closing report rejected: "+cmd.Reason(), cmd.Actor(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
