package cmd

import (
	"log/slog"

	httpadapter "helperhub/internal/adapters/in/http"
	"helperhub/internal/adapters/out/postgres"
	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/application/usecases/queries"
	"helperhub/internal/core/ports"
	"helperhub/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   ports.Notifier
	appliers   ports.ApplierRegistry
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, notifier ports.Notifier, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, notifier, logger),
		notifier:   notifier,
		appliers:   commands.NewApplierRegistry(),
		logger:     logger,
	}
}

// FuncFactory adapts a function to the narrow unit of work factories the
// command handlers depend on.
type FuncFactory[T any] func() T

func (f FuncFactory[T]) Create() T {
	return f()
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncFactory[commands.OrderUoW](func() commands.OrderUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) candidateUoW() commands.CandidateUoWFactory {
	return FuncFactory[commands.CandidateUoW](func() commands.CandidateUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) closingUoW() commands.ClosingUoWFactory {
	return FuncFactory[commands.ClosingUoW](func() commands.ClosingUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) settlementUoW() commands.SettlementUoWFactory {
	return FuncFactory[commands.SettlementUoW](func() commands.SettlementUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) payoutUoW() commands.PayoutUoWFactory {
	return FuncFactory[commands.PayoutUoW](func() commands.PayoutUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) policyUoW() commands.PolicyUoWFactory {
	return FuncFactory[commands.PolicyUoW](func() commands.PolicyUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) incidentUoW() commands.IncidentUoWFactory {
	return FuncFactory[commands.IncidentUoW](func() commands.IncidentUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) sweepUoW() commands.UoWFactory {
	return FuncFactory[commands.UoW](func() commands.UoW { return c.uowFactory.Create() })
}

// HTTPHandlers wires every command and query the HTTP adapter exposes.
func (c *CompositionRoot) HTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:           commands.NewCreateOrderCommandHandler(c.orderUoW(), c.config.DefaultRates),
		ConfirmDeposit:        commands.NewConfirmDepositCommandHandler(c.orderUoW()),
		CancelOrder:           commands.NewCancelOrderCommandHandler(c.orderUoW()),
		TransitionOrder:       commands.NewTransitionOrderCommandHandler(c.orderUoW()),
		StartWork:             commands.NewStartWorkCommandHandler(c.orderUoW()),
		ConfirmBalancePayment: commands.NewConfirmBalancePaymentCommandHandler(c.orderUoW()),
		CloseOrder:            commands.NewCloseOrderCommandHandler(c.orderUoW()),

		ApplyCandidate:  commands.NewApplyCandidateCommandHandler(c.candidateUoW()),
		SelectCandidate: commands.NewSelectCandidateCommandHandler(c.candidateUoW()),
		RemoveCandidate: commands.NewRemoveCandidateCommandHandler(c.candidateUoW()),

		SubmitClosingReport:  commands.NewSubmitClosingReportCommandHandler(c.closingUoW()),
		ApproveClosingReport: commands.NewApproveClosingReportCommandHandler(c.closingUoW(), c.config.DefaultRates, c.config.BalanceDueDays),
		RejectClosingReport:  commands.NewRejectClosingReportCommandHandler(c.closingUoW()),

		ChangeSettlementStatus: commands.NewChangeSettlementStatusCommandHandler(c.settlementUoW()),
		EditSettlementAmount:   commands.NewEditSettlementAmountCommandHandler(c.settlementUoW()),

		RequestPayout:       commands.NewRequestPayoutCommandHandler(c.payoutUoW()),
		RecordPayoutOutcome: commands.NewRecordPayoutOutcomeCommandHandler(c.payoutUoW()),
		RetryPayout:         commands.NewRetryPayoutCommandHandler(c.payoutUoW()),

		ChangeSetting:         commands.NewChangeSettingCommandHandler(c.policyUoW(), c.appliers),
		CancelSettingChange:   commands.NewCancelSettingChangeCommandHandler(c.policyUoW()),
		RollbackSettingChange: commands.NewRollbackSettingChangeCommandHandler(c.policyUoW(), c.appliers),

		ReportIncident:  commands.NewReportIncidentCommandHandler(c.incidentUoW()),
		ResolveIncident: commands.NewResolveIncidentCommandHandler(c.incidentUoW()),

		GetOrder:               queries.NewGetOrderQueryHandler(c.gormDB),
		GetOrderHistory:        queries.NewGetOrderHistoryQueryHandler(c.gormDB),
		ListOrderCandidates:    queries.NewListOrderCandidatesQueryHandler(c.gormDB),
		GetPayoutHistory:       queries.NewGetPayoutHistoryQueryHandler(c.gormDB),
		GetSettlementTotals:    queries.NewGetSettlementTotalsQueryHandler(c.gormDB),
		GetSettlementStatement: queries.NewGetSettlementStatementQueryHandler(c.gormDB),
	}
}

// JobManager wires every reconciliation sweep onto its schedule.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(jobs.Sweeps{
		HideClosedOrders:       commands.NewHideClosedOrdersCommandHandler(c.sweepUoW(), c.logger),
		ExpireUnpaidOrders:     commands.NewExpireUnpaidOrdersCommandHandler(c.sweepUoW(), c.logger),
		CancelUnassignedOrders: commands.NewCancelUnassignedOrdersCommandHandler(c.sweepUoW(), c.logger),
		ApplyIncidentDeducts:   commands.NewApplyIncidentDeductionsCommandHandler(c.sweepUoW(), c.logger),
		SendBalanceReminders:   commands.NewSendBalanceRemindersCommandHandler(c.sweepUoW(), c.notifier, c.config.ReminderWindow, c.logger),
		ActivateSettingChanges: commands.NewActivateDueSettingChangesCommandHandler(c.policyUoW(), c.appliers, c.logger),
	}, c.config.Schedules, c.config.SweepTimeout, c.logger)
}
