package payoutrepo

import (
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/payout"

	"github.com/google/uuid"
)

type PayoutDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SettlementID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	HelperID       uuid.UUID `gorm:"type:uuid;not null"`
	Amount         int64     `gorm:"not null"`
	BankCode       string    `gorm:"type:varchar(16);not null"`
	AccountNumber  string    `gorm:"type:varchar(64);not null"`
	HolderName     string    `gorm:"type:varchar(128);not null"`
	Status         string    `gorm:"type:varchar(16);not null;index"`
	RetryCount     int       `gorm:"not null;default:0"`
	FailureCode    string    `gorm:"type:varchar(64)"`
	FailureMessage string    `gorm:"type:text"`
	RequestedAt    time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt      time.Time `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	Version        int       `gorm:"not null;default:0"`
}

func (PayoutDTO) TableName() string {
	return "payouts"
}

type EventDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayoutID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousStatus string    `gorm:"type:varchar(16)"`
	NewStatus      string    `gorm:"type:varchar(16);not null"`
	Reason         string    `gorm:"type:text"`
	Actor          string    `gorm:"type:varchar(128);not null"`
	OccurredAt     time.Time `gorm:"type:timestamptz;not null"`
}

func (EventDTO) TableName() string {
	return "payout_events"
}

func fromDomain(p *payout.Payout) PayoutDTO {
	st := p.State()
	return PayoutDTO{
		ID:             st.ID.Bytes(),
		SettlementID:   st.SettlementID.Bytes(),
		OrderID:        st.OrderID.Bytes(),
		HelperID:       st.HelperID.Bytes(),
		Amount:         st.Amount,
		BankCode:       st.Bank.BankCode,
		AccountNumber:  st.Bank.AccountNumber,
		HolderName:     st.Bank.HolderName,
		Status:         string(st.Status),
		RetryCount:     st.RetryCount,
		FailureCode:    st.FailureCode,
		FailureMessage: st.FailureMessage,
		RequestedAt:    st.RequestedAt,
		UpdatedAt:      st.UpdatedAt,
		Version:        st.Version,
	}
}

func toDomain(dto PayoutDTO) (*payout.Payout, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	settlementID, err := kernel.UUIDFromBytes(dto.SettlementID[:])
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
	return payout.RestorePayout(payout.State{
		ID:           id,
		SettlementID: settlementID,
		OrderID:      orderID,
		HelperID:     helperID,
		Amount:       dto.Amount,
		Bank: payout.BankAccount{
			BankCode:      dto.BankCode,
			AccountNumber: dto.AccountNumber,
			HolderName:    dto.HolderName,
		},
		Status:         payout.Status(dto.Status),
		RetryCount:     dto.RetryCount,
		FailureCode:    dto.FailureCode,
		FailureMessage: dto.FailureMessage,
		RequestedAt:    dto.RequestedAt,
		UpdatedAt:      dto.UpdatedAt,
		Version:        dto.Version,
	})
}

func eventFromDomain(e payout.Event) EventDTO {
	return EventDTO{
		ID:             e.ID.Bytes(),
		PayoutID:       e.PayoutID.Bytes(),
		PreviousStatus: string(e.Previous),
		NewStatus:      string(e.New),
		Reason:         e.Reason,
		Actor:          e.Actor,
		OccurredAt:     e.OccurredAt,
	}
}
