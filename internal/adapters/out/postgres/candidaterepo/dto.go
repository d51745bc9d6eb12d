// Package candidaterepo persists helper applications.
package candidaterepo

import (
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CandidateDTO is the candidates row. A partial unique index keeps one
// active application per order and helper.
type CandidateDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	HelperID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
}

func (CandidateDTO) TableName() string {
	return "candidates"
}

func fromDomain(c *candidate.Candidate) CandidateDTO {
	return CandidateDTO{
		ID:        c.ID().Bytes(),
		OrderID:   c.OrderID().Bytes(),
		HelperID:  c.HelperID().Bytes(),
		Status:    string(c.Status()),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toDomain(dto CandidateDTO) (*candidate.Candidate, error) {
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
	return candidate.RestoreCandidate(id, orderID, helperID, candidate.Status(dto.Status), dto.CreatedAt, dto.UpdatedAt)
}
