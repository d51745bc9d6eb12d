package queries

import (
	"context"
	"database/sql"
	"errors"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown order. Hidden orders
// are still returned, flagged as such.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			requester_id,
			matched_helper_id,
			status,
			payment_status,
			unit_price,
			quantity,
			scheduled_date,
			max_helpers,
			current_helpers,
			deposit_amount,
			balance_amount,
			balance_due_at,
			closed_at,
			hidden_at IS NOT NULL,
			created_at,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		view      OrderView
		id, reqID uuid.UUID
		matchedID *uuid.UUID
	)
	err := row.Scan(
		&id,
		&reqID,
		&matchedID,
		&view.Status,
		&view.PaymentStatus,
		&view.UnitPrice,
		&view.Quantity,
		&view.ScheduledDate,
		&view.MaxHelpers,
		&view.CurrentHelpers,
		&view.DepositAmount,
		&view.BalanceAmount,
		&view.BalanceDueAt,
		&view.ClosedAt,
		&view.Hidden,
		&view.CreatedAt,
		&view.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return OrderView{}, err
	}

	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderView{}, err
	}
	if view.RequesterID, err = kernel.UUIDFromBytes(reqID[:]); err != nil {
		return OrderView{}, err
	}
	if view.MatchedHelperID, err = kernel.UUIDPtrFromBytes(matchedID); err != nil {
		return OrderView{}, err
	}
	view.ScheduledDate = view.ScheduledDate.UTC()
	return view, nil
}
