package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle returns an empty slice for an order without history.
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]StatusChangeView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	history := make([]StatusChangeView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(previous_status, ''),
			new_status,
			COALESCE(reason, ''),
			actor,
			override_used,
			created_at
		FROM order_status_events
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v StatusChangeView
		if err = rows.Scan(&v.Previous, &v.New, &v.Reason, &v.Actor, &v.OverrideUsed, &v.OccurredAt); err != nil {
			return nil, err
		}
		history = append(history, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
