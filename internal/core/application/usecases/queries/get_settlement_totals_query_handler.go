package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetSettlementTotalsQueryHandler struct {
	db *gorm.DB
}

func NewGetSettlementTotalsQueryHandler(db *gorm.DB) GetSettlementTotalsQueryHandler {
	return GetSettlementTotalsQueryHandler{db: db}
}

// Handle returns one row per status present in the period, ordered by status.
func (h GetSettlementTotalsQueryHandler) Handle(ctx context.Context, query GetSettlementTotalsQuery) ([]SettlementTotals, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	where, args := query.Period().where()

	totals := make([]SettlementTotals, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.status,
			COUNT(*),
			COALESCE(SUM(s.gross), 0),
			COALESCE(SUM(s.commission), 0),
			COALESCE(SUM(s.deduction), 0),
			COALESCE(SUM(s.net), 0)
		FROM settlements s
		WHERE `+where+`
		GROUP BY s.status
		ORDER BY s.status
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t SettlementTotals
		if err = rows.Scan(&t.Status, &t.Count, &t.Gross, &t.Commission, &t.Deduction, &t.Net); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}
