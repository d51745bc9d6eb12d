package http

import (
	"net/http"
	"time"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/application/usecases/queries"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/payout"

	"github.com/labstack/echo/v4"
)

type NewPayout struct {
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
}

// PayoutCallback is what the bank gateway posts back for a transfer.
type PayoutCallback struct {
	Outcome        string `json:"outcome"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

type PayoutEvent struct {
	Previous   string    `json:"previous,omitempty"`
	New        string    `json:"new"`
	Reason     string    `json:"reason,omitempty"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Payout struct {
	ID             string        `json:"id"`
	SettlementID   string        `json:"settlement_id"`
	Amount         int64         `json:"amount"`
	BankCode       string        `json:"bank_code"`
	MaskedAccount  string        `json:"masked_account"`
	Status         string        `json:"status"`
	RetryCount     int           `json:"retry_count"`
	FailureCode    string        `json:"failure_code,omitempty"`
	FailureMessage string        `json:"failure_message,omitempty"`
	Events         []PayoutEvent `json:"events"`
}

// RequestPayout handles POST /api/v1/settlements/:settlementId/payouts.
func (s *Server) RequestPayout(ctx echo.Context) error {
	settlementID, err := pathUUID(ctx, "settlementId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body NewPayout
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	bank, err := payout.NewBankAccount(body.BankCode, body.AccountNumber, body.HolderName)
	if err != nil {
		return respondError(ctx, err)
	}

	payoutID := kernel.NewUUID()
	cmd, err := commands.NewRequestPayoutCommand(payoutID, settlementID, bank, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.RequestPayout.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, payoutID)
}

// GetPayoutHistory handles GET /api/v1/payouts/:payoutId.
func (s *Server) GetPayoutHistory(ctx echo.Context) error {
	payoutID, err := pathUUID(ctx, "payoutId")
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetPayoutHistoryQuery(payoutID)
	if err != nil {
		return respondError(ctx, err)
	}
	view, err := s.h.GetPayoutHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	resp := Payout{
		ID:             view.ID.String(),
		SettlementID:   view.SettlementID.String(),
		Amount:         view.Amount,
		BankCode:       view.BankCode,
		MaskedAccount:  view.MaskedAccount,
		Status:         view.Status,
		RetryCount:     view.RetryCount,
		FailureCode:    view.FailureCode,
		FailureMessage: view.FailureMessage,
		Events:         make([]PayoutEvent, len(view.Events)),
	}
	for i, e := range view.Events {
		resp.Events[i] = PayoutEvent(e)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// RetryPayout handles POST /api/v1/payouts/:payoutId/retry.
func (s *Server) RetryPayout(ctx echo.Context) error {
	payoutID, err := pathUUID(ctx, "payoutId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewRetryPayoutCommand(payoutID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.RetryPayout.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RecordPayoutOutcome handles POST /api/v1/payouts/:payoutId/callbacks.
func (s *Server) RecordPayoutOutcome(ctx echo.Context) error {
	payoutID, err := pathUUID(ctx, "payoutId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body PayoutCallback
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewRecordPayoutOutcomeCommand(
		payoutID, commands.PayoutOutcome(body.Outcome), body.FailureCode, body.FailureMessage, actorFrom(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.RecordPayoutOutcome.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
