package http

import (
	"net/http"
	"time"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/application/usecases/queries"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const dateLayout = time.DateOnly

type NewOrder struct {
	RequesterID   string `json:"requester_id"`
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	ScheduledDate string `json:"scheduled_date"`
	MaxHelpers    int    `json:"max_helpers"`
}

type Reason struct {
	Reason string `json:"reason"`
}

type Transition struct {
	Target string `json:"target"`
	Reason string `json:"reason"`
}

type HelperRef struct {
	HelperID string `json:"helper_id"`
}

type Order struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	MatchedHelperID *string    `json:"matched_helper_id,omitempty"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	UnitPrice       int64      `json:"unit_price"`
	Quantity        int        `json:"quantity"`
	ScheduledDate   string     `json:"scheduled_date"`
	MaxHelpers      int        `json:"max_helpers"`
	CurrentHelpers  int        `json:"current_helpers"`
	DepositAmount   int64      `json:"deposit_amount"`
	BalanceAmount   int64      `json:"balance_amount"`
	BalanceDueAt    *time.Time `json:"balance_due_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	Hidden          bool       `json:"hidden"`
	CreatedAt       time.Time  `json:"created_at"`
	Version         int        `json:"version"`
}

type StatusChange struct {
	Previous     string    `json:"previous,omitempty"`
	New          string    `json:"new"`
	Reason       string    `json:"reason,omitempty"`
	Actor        string    `json:"actor"`
	OverrideUsed bool      `json:"override_used"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor := actorFrom(ctx)
	requesterID, err := uuidOrActor("requester_id", body.RequesterID, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	scheduled, err := time.Parse(dateLayout, body.ScheduledDate)
	if err != nil {
		return badRequest(ctx, "scheduled_date must be YYYY-MM-DD")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, requesterID, body.UnitPrice, body.Quantity, scheduled, body.MaxHelpers, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, orderID)
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	resp := Order{
		ID:             view.ID.String(),
		RequesterID:    view.RequesterID.String(),
		Status:         view.Status,
		PaymentStatus:  view.PaymentStatus,
		UnitPrice:      view.UnitPrice,
		Quantity:       view.Quantity,
		ScheduledDate:  view.ScheduledDate.Format(dateLayout),
		MaxHelpers:     view.MaxHelpers,
		CurrentHelpers: view.CurrentHelpers,
		DepositAmount:  view.DepositAmount,
		BalanceAmount:  view.BalanceAmount,
		BalanceDueAt:   view.BalanceDueAt,
		ClosedAt:       view.ClosedAt,
		Hidden:         view.Hidden,
		CreatedAt:      view.CreatedAt,
		Version:        view.Version,
	}
	if view.MatchedHelperID != nil {
		id := view.MatchedHelperID.String()
		resp.MatchedHelperID = &id
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetOrderHistory handles GET /api/v1/orders/:orderId/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	views, err := s.h.GetOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	resp := make([]StatusChange, len(views))
	for i, v := range views {
		resp[i] = StatusChange(v)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// ConfirmDeposit handles POST /api/v1/orders/:orderId/deposit.
func (s *Server) ConfirmDeposit(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewConfirmDepositCommand(orderID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ConfirmDeposit.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body Reason
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewCancelOrderCommand(orderID, body.Reason, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// TransitionOrder handles POST /api/v1/orders/:orderId/transitions.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body Transition
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	target, err := order.ParseStatus(body.Target)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewTransitionOrderCommand(orderID, target, body.Reason, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.TransitionOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// StartWork handles POST /api/v1/orders/:orderId/start.
func (s *Server) StartWork(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body HelperRef
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor := actorFrom(ctx)
	helperID, err := uuidOrActor("helper_id", body.HelperID, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewStartWorkCommand(orderID, helperID, actor)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.StartWork.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmBalancePayment handles POST /api/v1/orders/:orderId/balance-payment.
func (s *Server) ConfirmBalancePayment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewConfirmBalancePaymentCommand(orderID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ConfirmBalancePayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CloseOrder handles POST /api/v1/orders/:orderId/close.
func (s *Server) CloseOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewCloseOrderCommand(orderID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.CloseOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
