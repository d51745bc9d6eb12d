package http

import (
	"net/http"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/application/usecases/queries"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers is every use case the HTTP adapter exposes.
type Handlers struct {
	CreateOrder           commands.CreateOrderCommandHandler
	ConfirmDeposit        commands.ConfirmDepositCommandHandler
	CancelOrder           commands.CancelOrderCommandHandler
	TransitionOrder       commands.TransitionOrderCommandHandler
	StartWork             commands.StartWorkCommandHandler
	ConfirmBalancePayment commands.ConfirmBalancePaymentCommandHandler
	CloseOrder            commands.CloseOrderCommandHandler

	ApplyCandidate  commands.ApplyCandidateCommandHandler
	SelectCandidate commands.SelectCandidateCommandHandler
	RemoveCandidate commands.RemoveCandidateCommandHandler

	SubmitClosingReport  commands.SubmitClosingReportCommandHandler
	ApproveClosingReport commands.ApproveClosingReportCommandHandler
	RejectClosingReport  commands.RejectClosingReportCommandHandler

	ChangeSettlementStatus commands.ChangeSettlementStatusCommandHandler
	EditSettlementAmount   commands.EditSettlementAmountCommandHandler

	RequestPayout       commands.RequestPayoutCommandHandler
	RecordPayoutOutcome commands.RecordPayoutOutcomeCommandHandler
	RetryPayout         commands.RetryPayoutCommandHandler

	ChangeSetting         commands.ChangeSettingCommandHandler
	CancelSettingChange   commands.CancelSettingChangeCommandHandler
	RollbackSettingChange commands.RollbackSettingChangeCommandHandler

	ReportIncident  commands.ReportIncidentCommandHandler
	ResolveIncident commands.ResolveIncidentCommandHandler

	GetOrder               queries.GetOrderQueryHandler
	GetOrderHistory        queries.GetOrderHistoryQueryHandler
	ListOrderCandidates    queries.ListOrderCandidatesQueryHandler
	GetPayoutHistory       queries.GetPayoutHistoryQueryHandler
	GetSettlementTotals    queries.GetSettlementTotalsQueryHandler
	GetSettlementStatement queries.GetSettlementStatementQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h         Handlers
	jwtSecret []byte
}

func NewServer(handlers Handlers, jwtSecret []byte) *Server {
	return &Server{h: handlers, jwtSecret: jwtSecret}
}

// RegisterRoutes mounts the health check, the metrics endpoint and the
// authenticated API on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(ObserveRequests())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", Authenticate(s.jwtSecret))

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.GET("/orders/:orderId/history", s.GetOrderHistory)
	api.POST("/orders/:orderId/deposit", s.ConfirmDeposit)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/transitions", s.TransitionOrder)
	api.POST("/orders/:orderId/start", s.StartWork)
	api.POST("/orders/:orderId/balance-payment", s.ConfirmBalancePayment)
	api.POST("/orders/:orderId/close", s.CloseOrder)

	api.GET("/orders/:orderId/candidates", s.ListOrderCandidates)
	api.POST("/orders/:orderId/candidates", s.ApplyCandidate)
	api.POST("/orders/:orderId/candidates/:candidateId/select", s.SelectCandidate)
	api.DELETE("/orders/:orderId/helpers/:helperId", s.RemoveCandidate)

	api.POST("/orders/:orderId/closing-reports", s.SubmitClosingReport)
	api.POST("/closing-reports/:reportId/approve", s.ApproveClosingReport)
	api.POST("/closing-reports/:reportId/reject", s.RejectClosingReport)

	api.POST("/orders/:orderId/incidents", s.ReportIncident)
	api.POST("/incidents/:incidentId/resolve", s.ResolveIncident)

	api.GET("/settlements/totals", s.GetSettlementTotals)
	api.GET("/settlements/statement", s.ExportSettlementStatement)
	api.POST("/settlements/:settlementId/:action", s.ChangeSettlementStatus)
	api.PATCH("/settlements/:settlementId/amounts", s.EditSettlementAmount)
	api.POST("/settlements/:settlementId/payouts", s.RequestPayout)

	api.GET("/payouts/:payoutId", s.GetPayoutHistory)
	api.POST("/payouts/:payoutId/retry", s.RetryPayout)
	api.POST("/payouts/:payoutId/callbacks", s.RecordPayoutOutcome)

	api.POST("/settings/changes", s.ChangeSetting)
	api.POST("/settings/changes/:changeId/cancel", s.CancelSettingChange)
	api.POST("/settings/changes/:changeId/rollback", s.RollbackSettingChange)
}

// Created is the body of a 201 response.
type Created struct {
	ID string `json:"id"`
}

func created(ctx echo.Context, id kernel.UUID) error {
	return ctx.JSON(http.StatusCreated, Created{ID: id.String()})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return parseUUID(name, ctx.Param(name))
}

// uuidOrActor parses raw, falling back to the caller's own id.
func uuidOrActor(name, raw string, actor kernel.Actor) (kernel.UUID, error) {
	if raw == "" {
		raw = actor.ID()
	}
	return parseUUID(name, raw)
}

func parseUUID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
