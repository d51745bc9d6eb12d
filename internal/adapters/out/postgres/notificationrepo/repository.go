// Package notificationrepo keeps the per-day notification log used to
// send each reminder at most once per order and day.
package notificationrepo

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(32);primaryKey"`
	SentOn    time.Time `gorm:"type:date;primaryKey"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (LogDTO) TableName() string {
	return "notification_logs"
}

// GormNotificationLogRepository implements ports.NotificationLogRepository using GORM.
type GormNotificationLogRepository struct {
	db *gorm.DB
}

func NewGormNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

func (r *GormNotificationLogRepository) Record(ctx context.Context, orderID kernel.UUID, kind string, day time.Time) (bool, error) {
	day = day.UTC()
	dto := LogDTO{
		OrderID:   orderID.Bytes(),
		Kind:      kind,
		SentOn:    time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
