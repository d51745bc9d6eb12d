package queries

import (
	"context"

	"helperhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetSettlementStatementQueryHandler struct {
	db *gorm.DB
}

func NewGetSettlementStatementQueryHandler(db *gorm.DB) GetSettlementStatementQueryHandler {
	return GetSettlementStatementQueryHandler{db: db}
}

func (h GetSettlementStatementQueryHandler) Handle(ctx context.Context, query GetSettlementStatementQuery) ([]StatementLine, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	where, args := query.Period().where()

	lines := make([]StatementLine, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.order_id,
			s.helper_id,
			o.scheduled_date,
			s.status,
			s.gross,
			s.commission,
			s.deduction,
			s.net,
			s.created_at
		FROM settlements s
		JOIN orders o ON o.id = s.order_id
		WHERE `+where+`
		ORDER BY s.created_at, s.id
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l                  StatementLine
			id, orderID, helID uuid.UUID
		)
		err = rows.Scan(
			&id,
			&orderID,
			&helID,
			&l.ScheduledDate,
			&l.Status,
			&l.Gross,
			&l.Commission,
			&l.Deduction,
			&l.Net,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if l.SettlementID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if l.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if l.HelperID, err = kernel.UUIDFromBytes(helID[:]); err != nil {
			return nil, err
		}
		l.ScheduledDate = l.ScheduledDate.UTC()
		lines = append(lines, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
