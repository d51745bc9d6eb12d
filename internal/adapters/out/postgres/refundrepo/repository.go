// Package refundrepo stores refunds owed to requesters. Rows are insert-only.
package refundrepo

import (
	"context"
	"time"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null"`
	Amount      int64     `gorm:"not null"`
	Reason      string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null"`
}

func (RefundDTO) TableName() string {
	return "refunds"
}

// GormRefundRepository implements ports.RefundRepository using GORM.
type GormRefundRepository struct {
	db *gorm.DB
}

func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

func (r *GormRefundRepository) Add(ctx context.Context, rf refund.Refund) error {
	dto := RefundDTO{
		ID:          rf.ID.Bytes(),
		OrderID:     rf.OrderID.Bytes(),
		RequesterID: rf.RequesterID.Bytes(),
		Amount:      rf.Amount,
		Reason:      rf.Reason,
		Status:      rf.Status,
		CreatedAt:   rf.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberrs.Write(err, "refund", rf.ID.String())
	}
	return nil
}
