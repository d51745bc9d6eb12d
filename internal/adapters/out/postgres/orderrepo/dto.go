// Package orderrepo persists order aggregates and their status event log.
package orderrepo

import (
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Status is stored by name so that raw SQL
// reports stay readable.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequesterID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	MatchedHelperID *uuid.UUID `gorm:"type:uuid;index"`
	UnitPrice       int64      `gorm:"not null"`
	Quantity        int        `gorm:"not null"`
	ScheduledDate   time.Time  `gorm:"type:date;not null;index"`
	MaxHelpers      int        `gorm:"not null;default:1"`
	CurrentHelpers  int        `gorm:"not null;default:0"`
	PaymentStatus   string     `gorm:"type:varchar(16);not null"`
	DepositAmount   int64      `gorm:"not null"`
	BalanceAmount   int64      `gorm:"not null;default:0"`
	BalanceDueAt    *time.Time `gorm:"type:timestamptz"`
	ClosedAt        *time.Time `gorm:"type:timestamptz"`
	HiddenAt        *time.Time `gorm:"type:timestamptz"`
	Status          string     `gorm:"type:varchar(32);not null;index"`
	Version         int        `gorm:"not null;default:0"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// StatusEventDTO is one row of the append-only order status log.
type StatusEventDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousStatus string    `gorm:"type:varchar(32)"`
	NewStatus      string    `gorm:"type:varchar(32);not null"`
	Reason         string    `gorm:"type:text"`
	Actor          string    `gorm:"type:varchar(128);not null"`
	OverrideUsed   bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null;index"`
}

func (StatusEventDTO) TableName() string {
	return "order_status_events"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.State()
	return OrderDTO{
		ID:              s.ID.Bytes(),
		RequesterID:     s.RequesterID.Bytes(),
		MatchedHelperID: kernel.BytesPtr(s.MatchedHelperID),
		UnitPrice:       s.UnitPrice,
		Quantity:        s.Quantity,
		ScheduledDate:   s.ScheduledDate,
		MaxHelpers:      s.MaxHelpers,
		CurrentHelpers:  s.CurrentHelpers,
		PaymentStatus:   string(s.PaymentStatus),
		DepositAmount:   s.DepositAmount,
		BalanceAmount:   s.BalanceAmount,
		BalanceDueAt:    s.BalanceDueAt,
		ClosedAt:        s.ClosedAt,
		HiddenAt:        s.HiddenAt,
		Status:          s.Status.String(),
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}
	helperID, err := kernel.UUIDPtrFromBytes(dto.MatchedHelperID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:              id,
		RequesterID:     requesterID,
		MatchedHelperID: helperID,
		UnitPrice:       dto.UnitPrice,
		Quantity:        dto.Quantity,
		ScheduledDate:   dto.ScheduledDate.UTC(),
		MaxHelpers:      dto.MaxHelpers,
		CurrentHelpers:  dto.CurrentHelpers,
		PaymentStatus:   order.PaymentStatus(dto.PaymentStatus),
		DepositAmount:   dto.DepositAmount,
		BalanceAmount:   dto.BalanceAmount,
		BalanceDueAt:    dto.BalanceDueAt,
		ClosedAt:        dto.ClosedAt,
		HiddenAt:        dto.HiddenAt,
		CreatedAt:       dto.CreatedAt,
		Status:          status,
		Version:         dto.Version,
	})
}

func eventFromDomain(e order.StatusEvent) StatusEventDTO {
	previous := ""
	if e.Previous != order.Unknown {
		previous = e.Previous.String()
	}
	return StatusEventDTO{
		ID:             e.ID.Bytes(),
		OrderID:        e.OrderID.Bytes(),
		PreviousStatus: previous,
		NewStatus:      e.New.String(),
		Reason:         e.Reason,
		Actor:          e.Actor,
		OverrideUsed:   e.OverrideUsed,
		CreatedAt:      e.OccurredAt,
	}
}
