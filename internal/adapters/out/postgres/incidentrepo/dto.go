package incidentrepo

import (
	"time"

	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type IncidentDTO struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID                uuid.UUID  `gorm:"type:uuid;not null;index"`
	HelperID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeductionAmount        int64      `gorm:"not null"`
	Description            string     `gorm:"type:text;not null"`
	HelperResponseDeadline time.Time  `gorm:"type:timestamptz;not null;index"`
	Status                 string     `gorm:"type:varchar(16);not null"`
	DeductionApplied       bool       `gorm:"not null;default:false"`
	DeductionAppliedAt     *time.Time `gorm:"type:timestamptz"`
	ReportedBy             string     `gorm:"type:varchar(128);not null"`
	CreatedAt              time.Time  `gorm:"type:timestamptz;not null"`
}

func (IncidentDTO) TableName() string {
	return "incidents"
}

func fromDomain(i *incident.Incident) IncidentDTO {
	st := i.State()
	return IncidentDTO{
		ID:                     st.ID.Bytes(),
		OrderID:                st.OrderID.Bytes(),
		HelperID:               st.HelperID.Bytes(),
		DeductionAmount:        st.DeductionAmount,
		Description:            st.Description,
		HelperResponseDeadline: st.HelperResponseDeadline,
		Status:                 string(st.Status),
		DeductionApplied:       st.DeductionApplied,
		DeductionAppliedAt:     st.DeductionAppliedAt,
		ReportedBy:             st.ReportedBy,
		CreatedAt:              st.CreatedAt,
	}
}

func toDomain(dto IncidentDTO) (*incident.Incident, error) {
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
	return incident.RestoreIncident(incident.State{
		ID:                     id,
		OrderID:                orderID,
		HelperID:               helperID,
		DeductionAmount:        dto.DeductionAmount,
		Description:            dto.Description,
		HelperResponseDeadline: dto.HelperResponseDeadline,
		Status:                 incident.Status(dto.Status),
		DeductionApplied:       dto.DeductionApplied,
		DeductionAppliedAt:     dto.DeductionAppliedAt,
		ReportedBy:             dto.ReportedBy,
		CreatedAt:              dto.CreatedAt,
	})
}
