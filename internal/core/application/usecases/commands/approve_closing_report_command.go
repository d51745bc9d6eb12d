package commands

import (
	"context"
	"errors"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/core/domain/services"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrApproveClosingReportCommandIsNotConstructed = errors.New(
	"ApproveClosingReportCommand must be created via NewApproveClosingReportCommand constructor",
)

// ApproveClosingReportCommand fixes the final amount of an order. The
// pricing calculator runs exactly once here; its snapshot is stored on the
// report and copied into the helper's settlement.
type ApproveClosingReportCommand struct {
	reportID       kernel.UUID
	settlementID   kernel.UUID
	supplyOverride *int64
	actor          kernel.Actor

	guard guard.ConstructorGuard
}

func NewApproveClosingReportCommand(
	reportID, settlementID kernel.UUID,
	supplyOverride *int64,
	actor kernel.Actor,
) (ApproveClosingReportCommand, error) {
	if err := errors.Join(reportID.Validate(), settlementID.Validate(), actor.Validate()); err != nil {
		return ApproveClosingReportCommand{}, err
	}
	if supplyOverride != nil && *supplyOverride < 0 {
		return ApproveClosingReportCommand{}, errs.NewValueIsOutOfRangeError("supplyOverride", *supplyOverride, 0, "unbounded")
	}
	return ApproveClosingReportCommand{
		reportID:       reportID,
		settlementID:   settlementID,
		supplyOverride: supplyOverride,
		actor:          actor,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c ApproveClosingReportCommand) Validate() error {
	return c.guard.Validate(ErrApproveClosingReportCommandIsNotConstructed)
}

func (c ApproveClosingReportCommand) ReportID() kernel.UUID     { return c.reportID }
func (c ApproveClosingReportCommand) SettlementID() kernel.UUID { return c.settlementID }
func (c ApproveClosingReportCommand) SupplyOverride() *int64    { return c.supplyOverride }
func (c ApproveClosingReportCommand) Actor() kernel.Actor       { return c.actor }

type ApproveClosingReportCommandHandler struct {
	uowFactory     ClosingUoWFactory
	defaultRates   pricing.Rates
	balanceDueDays int
	calculator     services.PricingCalculator
}

func NewApproveClosingReportCommandHandler(
	uowFactory ClosingUoWFactory,
	defaultRates pricing.Rates,
	balanceDueDays int,
) ApproveClosingReportCommandHandler {
	return ApproveClosingReportCommandHandler{
		uowFactory:     uowFactory,
		defaultRates:   defaultRates,
		balanceDueDays: balanceDueDays,
		calculator:     services.NewPricingCalculator(),
	}
}

func (h ApproveClosingReportCommandHandler) Handle(ctx context.Context, cmd ApproveClosingReportCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(kernel.PermissionReviewClosing, "approve closing report"); err != nil {
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, report.OrderID())
	if err != nil {
		return err
	}

	helperID := report.HelperID()
	rates, err := resolveRates(ctx, uow.SettingRepository(), &helperID, h.defaultRates)
	if err != nil {
		return err
	}
	snapshot, err := h.calculator.Calculate(report.PricingInput(o.UnitPrice(), cmd.SupplyOverride(), 0), rates)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = report.Approve(snapshot, cmd.Actor(), now); err != nil {
		return err
	}
	if err = reportRepo.Update(ctx, report); err != nil {
		return err
	}

	dueAt := now.AddDate(0, 0, h.balanceDueDays)
	if err = o.ConfirmFinalAmount(outstandingBalance(o, snapshot), dueAt, cmd.Actor(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	s, err := settlement.NewSettlement(cmd.SettlementID(), o.ID(), helperID, snapshot, cmd.Actor(), now)
	if err != nil {
		return err
	}
	if err = uow.SettlementRepository().Add(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// outstandingBalance is what the requester still owes: the final gross
// minus the deposit actually paid, never below zero.
func outstandingBalance(o *order.Order, snapshot pricing.Snapshot) int64 {
	var paid int64
	if o.PaymentStatus() == order.PaymentDepositPaid {
		paid = o.DepositAmount()
	}
	return max(snapshot.Gross-paid, 0)
}
