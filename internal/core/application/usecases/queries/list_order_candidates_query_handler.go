package queries

import (
	"context"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOrderCandidatesQueryHandler struct {
	db *gorm.DB
}

func NewListOrderCandidatesQueryHandler(db *gorm.DB) ListOrderCandidatesQueryHandler {
	return ListOrderCandidatesQueryHandler{db: db}
}

func (h ListOrderCandidatesQueryHandler) Handle(ctx context.Context, query ListOrderCandidatesQuery) ([]CandidateView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT id, helper_id, status, created_at
		FROM candidates
		WHERE order_id = ?`
	args := []any{query.OrderID().Bytes()}
	if query.ActiveOnly() {
		sql += " AND status IN ?"
		args = append(args, []string{string(candidate.StatusApplied), string(candidate.StatusSelected)})
	}
	sql += " ORDER BY created_at, id"

	views := make([]CandidateView, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v            CandidateView
			id, helperID uuid.UUID
		)
		if err = rows.Scan(&id, &helperID, &v.Status, &v.AppliedAt); err != nil {
			return nil, err
		}
		if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if v.HelperID, err = kernel.UUIDFromBytes(helperID[:]); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
