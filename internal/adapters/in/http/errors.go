package http

import (
	"errors"
	"net/http"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// domain sentinels first: they can be wrapped inside the generic errs types.
var statusBySentinel = []struct {
	err    error
	status int
}{
	{order.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{order.ErrHelperMismatch, http.StatusUnprocessableEntity},
	{commands.ErrOrderNotOpen, http.StatusUnprocessableEntity},
	{commands.ErrBalanceNotPaid, http.StatusUnprocessableEntity},
	{candidate.ErrCapReached, http.StatusConflict},
	{candidate.ErrAlreadyApplied, http.StatusConflict},
	{candidate.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{closing.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{settlement.ErrAlreadyLocked, http.StatusConflict},
	{settlement.ErrSettlementLocked, http.StatusUnprocessableEntity},
	{settlement.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{payout.ErrActivePayoutExists, http.StatusConflict},
	{payout.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{policy.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{policy.ErrSuperseded, http.StatusConflict},
	{incident.ErrAlreadyResolved, http.StatusConflict},
	{incident.ErrDeductionApplied, http.StatusUnprocessableEntity},
	{errs.ErrConcurrencyConflict, http.StatusConflict},
	{errs.ErrObjectNotFound, http.StatusNotFound},
	{errs.ErrForbidden, http.StatusForbidden},
	{errs.ErrValueIsRequired, http.StatusBadRequest},
	{errs.ErrValueIsInvalid, http.StatusBadRequest},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest},
}

// StatusOf maps a command or query error to its response code.
func StatusOf(err error) int {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

func respondError(ctx echo.Context, err error) error {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		message = http.StatusText(status)
	}
	return ctx.JSON(status, Error{Code: status, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
