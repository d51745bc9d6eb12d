// Package closingrepo persists closing reports. The submission estimate
// and the approval snapshot are JSON columns written once and never
// recomputed.
package closingrepo

import (
	"time"

	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/pricing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportDTO struct {
	ID             uuid.UUID                              `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID                              `gorm:"type:uuid;not null;index"`
	HelperID       uuid.UUID                              `gorm:"type:uuid;not null;index"`
	DeliveredCount int                                    `gorm:"not null"`
	ReturnedCount  int                                    `gorm:"not null"`
	EtcCount       int                                    `gorm:"not null"`
	EtcUnitPrice   int64                                  `gorm:"not null"`
	ExtraCosts     datatypes.JSONSlice[pricing.ExtraCost] `gorm:"type:jsonb;not null"`
	EvidenceRefs   datatypes.JSONSlice[string]            `gorm:"type:jsonb;not null"`
	Status         string                                 `gorm:"type:varchar(16);not null;index"`
	RejectReason   string                                 `gorm:"type:text"`
	Submission     datatypes.JSONType[pricing.Submission] `gorm:"type:jsonb;not null"`
	Approval       datatypes.JSONType[*pricing.Snapshot]  `gorm:"type:jsonb;not null"`
	SubmittedAt    time.Time                              `gorm:"type:timestamptz;not null"`
	ReviewedAt     *time.Time                             `gorm:"type:timestamptz"`
	ReviewedBy     string                                 `gorm:"type:varchar(128)"`
	Version        int                                    `gorm:"not null;default:0"`
}

func (ReportDTO) TableName() string {
	return "closing_reports"
}

func fromDomain(r *closing.Report) ReportDTO {
	s := r.State()
	extra := s.ExtraCosts
	if extra == nil {
		extra = []pricing.ExtraCost{}
	}
	refs := s.EvidenceRefs
	if refs == nil {
		refs = []string{}
	}
	return ReportDTO{
		ID:             s.ID.Bytes(),
		OrderID:        s.OrderID.Bytes(),
		HelperID:       s.HelperID.Bytes(),
		DeliveredCount: s.Counts.Delivered,
		ReturnedCount:  s.Counts.Returned,
		EtcCount:       s.Counts.EtcCount,
		EtcUnitPrice:   s.Counts.EtcUnitPrice,
		ExtraCosts:     datatypes.NewJSONSlice(extra),
		EvidenceRefs:   datatypes.NewJSONSlice(refs),
		Status:         string(s.Status),
		RejectReason:   s.RejectReason,
		Submission:     datatypes.NewJSONType(s.Submission),
		Approval:       datatypes.NewJSONType(s.Approval),
		SubmittedAt:    s.SubmittedAt,
		ReviewedAt:     s.ReviewedAt,
		ReviewedBy:     s.ReviewedBy,
		Version:        s.Version,
	}
}

func toDomain(dto ReportDTO) (*closing.Report, error) {
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
	return closing.RestoreReport(closing.State{
		ID:       id,
		OrderID:  orderID,
		HelperID: helperID,
		Counts: closing.Counts{
			Delivered:    dto.DeliveredCount,
			Returned:     dto.ReturnedCount,
			EtcCount:     dto.EtcCount,
			EtcUnitPrice: dto.EtcUnitPrice,
		},
		ExtraCosts:   dto.ExtraCosts,
		EvidenceRefs: dto.EvidenceRefs,
		Status:       closing.Status(dto.Status),
		RejectReason: dto.RejectReason,
		Submission:   dto.Submission.Data(),
		Approval:     dto.Approval.Data(),
		SubmittedAt:  dto.SubmittedAt,
		ReviewedAt:   dto.ReviewedAt,
		ReviewedBy:   dto.ReviewedBy,
		Version:      dto.Version,
	})
}
