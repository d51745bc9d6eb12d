package incidentrepo

import (
	"context"
	"time"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIncidentRepository implements ports.IncidentRepository using GORM.
type GormIncidentRepository struct {
	db *gorm.DB
}

func NewGormIncidentRepository(db *gorm.DB) *GormIncidentRepository {
	return &GormIncidentRepository{db: db}
}

func (r *GormIncidentRepository) Add(ctx context.Context, i *incident.Incident) error {
	if err := i.Validate(); err != nil {
		return err
	}
	dto := fromDomain(i)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberrs.Write(err, "incident", i.ID().String())
	}
	return nil
}

func (r *GormIncidentRepository) Get(ctx context.Context, id kernel.UUID) (*incident.Incident, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto IncidentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "incident", id.String())
	}
	return toDomain(dto)
}

func (r *GormIncidentRepository) Resolve(ctx context.Context, i *incident.Incident) error {
	if err := i.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&IncidentDTO{}).
		Where("id = ? AND status = ?", i.ID().Bytes(), string(incident.StatusOpen)).
		Update("status", string(i.Status()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("incident", i.ID().String())
	}
	return nil
}

func (r *GormIncidentRepository) FindDueIDs(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&IncidentDTO{}).
		Where("status = ? AND deduction_applied = false AND helper_response_deadline < ?",
			string(incident.StatusOpen), now).
		Order("helper_response_deadline, id").
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, b := range raw {
		id, err := kernel.UUIDFromBytes(b[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// MarkDeductionApplied is the conditional write that keeps a deduction from
// being applied twice by overlapping sweeps.
func (r *GormIncidentRepository) MarkDeductionApplied(ctx context.Context, i *incident.Incident) (bool, error) {
	if err := i.Validate(); err != nil {
		return false, err
	}
	st := i.State()
	result := r.db.WithContext(ctx).
		Model(&IncidentDTO{}).
		Where("id = ? AND deduction_applied = false AND status = ?", st.ID.Bytes(), string(incident.StatusOpen)).
		Updates(map[string]any{
			"deduction_applied":    true,
			"deduction_applied_at": st.DeductionAppliedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
