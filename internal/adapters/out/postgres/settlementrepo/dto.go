// Package settlementrepo persists settlements and their append-only audit trail.
package settlementrepo

import (
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SettlementDTO struct {
	ID         uuid.UUID                            `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:ux_settlements_order_helper"`
	HelperID   uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:ux_settlements_order_helper;index"`
	Gross      int64                                `gorm:"not null"`
	Commission int64                                `gorm:"not null"`
	Deduction  int64                                `gorm:"not null"`
	Net        int64                                `gorm:"not null"`
	Status     string                               `gorm:"type:varchar(16);not null;index"`
	Snapshot   datatypes.JSONType[pricing.Snapshot] `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time                            `gorm:"type:timestamptz;not null;index"`
	UpdatedAt  time.Time                            `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	Version    int                                  `gorm:"not null;default:0"`
}

func (SettlementDTO) TableName() string {
	return "settlements"
}

// AuditEntryDTO is never updated or deleted.
type AuditEntryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SettlementID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind           string    `gorm:"type:varchar(32);not null"`
	Field          string    `gorm:"type:varchar(16)"`
	PreviousValue  *int64    `gorm:"type:bigint"`
	NewValue       *int64    `gorm:"type:bigint"`
	PreviousStatus string    `gorm:"type:varchar(16)"`
	NewStatus      string    `gorm:"type:varchar(16)"`
	Reason         string    `gorm:"type:text"`
	Actor          string    `gorm:"type:varchar(128);not null"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null"`
}

func (AuditEntryDTO) TableName() string {
	return "settlement_audit_entries"
}

func fromDomain(s *settlement.Settlement) SettlementDTO {
	st := s.State()
	return SettlementDTO{
		ID:         st.ID.Bytes(),
		OrderID:    st.OrderID.Bytes(),
		HelperID:   st.HelperID.Bytes(),
		Gross:      st.Gross,
		Commission: st.Commission,
		Deduction:  st.Deduction,
		Net:        st.Net,
		Status:     string(st.Status),
		Snapshot:   datatypes.NewJSONType(st.Snapshot),
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
		Version:    st.Version,
	}
}

func toDomain(dto SettlementDTO) (*settlement.Settlement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	helperID, err := kernel.UUIDFromBytes(dto.HelperID[:])
	if err != nil {
		return nil, err
	}
	return settlement.RestoreSettlement(settlement.State{
		ID:         id,
		OrderID:    orderID,
		HelperID:   helperID,
		Gross:      dto.Gross,
		Commission: dto.Commission,
		Deduction:  dto.Deduction,
		Net:        dto.Net,
		Status:     settlement.Status(dto.Status),
		Snapshot:   dto.Snapshot.Data(),
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
		Version:    dto.Version,
	})
}

func auditFromDomain(e settlement.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:             e.ID.Bytes(),
		SettlementID:   e.SettlementID.Bytes(),
		Kind:           string(e.Kind),
		Field:          string(e.Field),
		PreviousValue:  e.PreviousValue,
		NewValue:       e.NewValue,
		PreviousStatus: string(e.PreviousStatus),
		NewStatus:      string(e.NewStatus),
		Reason:         e.Reason,
		Actor:          e.Actor,
		CreatedAt:      e.CreatedAt,
	}
}
