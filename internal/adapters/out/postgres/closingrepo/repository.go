package closingrepo

import (
	"context"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormClosingReportRepository implements ports.ClosingReportRepository.
type GormClosingReportRepository struct {
	db *gorm.DB
}

func NewGormClosingReportRepository(db *gorm.DB) *GormClosingReportRepository {
	return &GormClosingReportRepository{db: db}
}

func (r *GormClosingReportRepository) Add(ctx context.Context, report *closing.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}
	dto := fromDomain(report)
	return dberrs.Write(r.db.WithContext(ctx).Create(&dto).Error, "closing report", report.ID().String())
}

// Update is a compare-and-set on the version.
func (r *GormClosingReportRepository) Update(ctx context.Context, report *closing.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}
	dto := fromDomain(report)
	dto.Version = report.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&ReportDTO{}).
		Where("id = ? AND version = ?", dto.ID, report.Version()).
		Select("*").
		Omit("id", "order_id", "helper_id", "submitted_at").
		Updates(&dto)
	if result.Error != nil {
		return dberrs.Write(result.Error, "closing report", report.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("closing report", report.ID().String())
	}
	report.AdvanceVersion()
	return nil
}

func (r *GormClosingReportRepository) Get(ctx context.Context, id kernel.UUID) (*closing.Report, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto ReportDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "closing report", id.String())
	}
	return toDomain(dto)
}
