package http

import (
	"fmt"
	"net/http"
	"time"

	"helperhub/internal/adapters/out/export"
	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/application/usecases/queries"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AmountEdit struct {
	Field  string `json:"field"`
	Value  int64  `json:"value"`
	Reason string `json:"reason"`
}

type SettlementTotals struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Gross      int64  `json:"gross"`
	Commission int64  `json:"commission"`
	Deduction  int64  `json:"deduction"`
	Net        int64  `json:"net"`
}

// ChangeSettlementStatus handles POST /api/v1/settlements/:settlementId/:action
// where action is lock, unlock or confirm.
func (s *Server) ChangeSettlementStatus(ctx echo.Context) error {
	settlementID, err := pathUUID(ctx, "settlementId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body Reason
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	action := commands.SettlementAction(ctx.Param("action"))
	cmd, err := commands.NewChangeSettlementStatusCommand(settlementID, action, body.Reason, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ChangeSettlementStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// EditSettlementAmount handles PATCH /api/v1/settlements/:settlementId/amounts.
func (s *Server) EditSettlementAmount(ctx echo.Context) error {
	settlementID, err := pathUUID(ctx, "settlementId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body AmountEdit
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewEditSettlementAmountCommand(
		settlementID, settlement.Field(body.Field), body.Value, body.Reason, actorFrom(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.EditSettlementAmount.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetSettlementTotals handles GET /api/v1/settlements/totals?from=&to=&helper_id=.
func (s *Server) GetSettlementTotals(ctx echo.Context) error {
	period, err := settlementPeriod(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetSettlementTotalsQuery(period)
	if err != nil {
		return respondError(ctx, err)
	}
	totals, err := s.h.GetSettlementTotals.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	resp := make([]SettlementTotals, len(totals))
	for i, t := range totals {
		resp[i] = SettlementTotals(t)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// ExportSettlementStatement handles GET /api/v1/settlements/statement and
// returns the period as an XLSX workbook.
func (s *Server) ExportSettlementStatement(ctx echo.Context) error {
	period, err := settlementPeriod(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	totalsQuery, err := queries.NewGetSettlementTotalsQuery(period)
	if err != nil {
		return respondError(ctx, err)
	}
	linesQuery, err := queries.NewGetSettlementStatementQuery(period)
	if err != nil {
		return respondError(ctx, err)
	}

	reqCtx := ctx.Request().Context()
	totals, err := s.h.GetSettlementTotals.Handle(reqCtx, totalsQuery)
	if err != nil {
		return respondError(ctx, err)
	}
	lines, err := s.h.GetSettlementStatement.Handle(reqCtx, linesQuery)
	if err != nil {
		return respondError(ctx, err)
	}
	book, err := export.SettlementStatement(period, totals, lines)
	if err != nil {
		return respondError(ctx, err)
	}

	filename := fmt.Sprintf("settlements_%s_%s.xlsx", period.From.Format(dateLayout), period.To.Format(dateLayout))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, xlsxContentType, book)
}

// settlementPeriod reads from and to (YYYY-MM-DD, to exclusive) and the
// optional helper_id. Callers without the settlement permission only see
// their own settlements.
func settlementPeriod(ctx echo.Context) (queries.SettlementPeriod, error) {
	var (
		period queries.SettlementPeriod
		err    error
	)
	if period.From, err = dateParam(ctx, "from"); err != nil {
		return period, err
	}
	if period.To, err = dateParam(ctx, "to"); err != nil {
		return period, err
	}

	actor := actorFrom(ctx)
	raw := ctx.QueryParam("helper_id")
	if !actor.Can(kernel.PermissionManageSettlement) {
		if actor.Role() != kernel.RoleHelper {
			return period, errs.NewForbiddenError("read settlements", actor.String())
		}
		raw = actor.ID()
	}
	if raw != "" {
		helperID, err := parseUUID("helper_id", raw)
		if err != nil {
			return period, err
		}
		period.HelperID = &helperID
	}
	return period, nil
}

func dateParam(ctx echo.Context, name string) (time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return time.Time{}, errs.NewValueIsRequiredError(name)
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return t, nil
}
