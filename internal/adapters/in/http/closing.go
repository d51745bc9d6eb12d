package http

import (
	"net/http"
	"time"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/pricing"

	"github.com/labstack/echo/v4"
)

type ExtraCost struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type NewClosingReport struct {
	HelperID     string      `json:"helper_id"`
	Delivered    int         `json:"delivered"`
	Returned     int         `json:"returned"`
	EtcCount     int         `json:"etc_count"`
	EtcUnitPrice int64       `json:"etc_unit_price"`
	ExtraCosts   []ExtraCost `json:"extra_costs"`
	EvidenceRefs []string    `json:"evidence_refs"`
}

type Approval struct {
	SupplyOverride *int64 `json:"supply_override,omitempty"`
}

type NewIncident struct {
	HelperID    string    `json:"helper_id"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

// SubmitClosingReport handles POST /api/v1/orders/:orderId/closing-reports.
func (s *Server) SubmitClosingReport(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body NewClosingReport
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor := actorFrom(ctx)
	helperID, err := uuidOrActor("helper_id", body.HelperID, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	extras := make([]pricing.ExtraCost, len(body.ExtraCosts))
	for i, e := range body.ExtraCosts {
		extras[i] = pricing.ExtraCost(e)
	}

	reportID := kernel.NewUUID()
	cmd, err := commands.NewSubmitClosingReportCommand(reportID, orderID, helperID, closing.Counts{
		Delivered:    body.Delivered,
		Returned:     body.Returned,
		EtcCount:     body.EtcCount,
		EtcUnitPrice: body.EtcUnitPrice,
	}, extras, body.EvidenceRefs, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.SubmitClosingReport.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, reportID)
}

// ApproveClosingReport handles POST /api/v1/closing-reports/:reportId/approve.
// The response carries the id of the settlement created by the approval.
func (s *Server) ApproveClosingReport(ctx echo.Context) error {
	reportID, err := pathUUID(ctx, "reportId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body Approval
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	settlementID := kernel.NewUUID()
	cmd, err := commands.NewApproveClosingReportCommand(reportID, settlementID, body.SupplyOverride, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ApproveClosingReport.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, settlementID)
}

// RejectClosingReport handles POST /api/v1/closing-reports/:reportId/reject.
func (s *Server) RejectClosingReport(ctx echo.Context) error {
	reportID, err := pathUUID(ctx, "reportId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body Reason
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewRejectClosingReportCommand(reportID, body.Reason, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.RejectClosingReport.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReportIncident handles POST /api/v1/orders/:orderId/incidents.
func (s *Server) ReportIncident(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body NewIncident
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	helperID, err := parseUUID("helper_id", body.HelperID)
	if err != nil {
		return respondError(ctx, err)
	}

	incidentID := kernel.NewUUID()
	cmd, err := commands.NewReportIncidentCommand(incidentID, orderID, helperID, body.Amount, body.Description, body.Deadline, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ReportIncident.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, incidentID)
}

// ResolveIncident handles POST /api/v1/incidents/:incidentId/resolve.
func (s *Server) ResolveIncident(ctx echo.Context) error {
	incidentID, err := pathUUID(ctx, "incidentId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewResolveIncidentCommand(incidentID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ResolveIncident.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
