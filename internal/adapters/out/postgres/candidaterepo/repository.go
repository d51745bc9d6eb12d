package candidaterepo

import (
	"context"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCandidateRepository implements ports.CandidateRepository using GORM.
type GormCandidateRepository struct {
	db *gorm.DB
}

func NewGormCandidateRepository(db *gorm.DB) *GormCandidateRepository {
	return &GormCandidateRepository{db: db}
}

func (r *GormCandidateRepository) Add(ctx context.Context, c *candidate.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	return dberrs.Write(r.db.WithContext(ctx).Create(&dto).Error, "candidate", c.ID().String())
}

func (r *GormCandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&CandidateDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{"status": dto.Status, "updated_at": dto.UpdatedAt})
	if result.Error != nil {
		return dberrs.Write(result.Error, "candidate", c.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("candidate", c.ID().String())
	}
	return nil
}

func (r *GormCandidateRepository) Get(ctx context.Context, id kernel.UUID) (*candidate.Candidate, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto CandidateDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "candidate", id.String())
	}
	return toDomain(dto)
}

func (r *GormCandidateRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*candidate.Candidate, error) {
	var dtos []CandidateDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	candidates := make([]*candidate.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *GormCandidateRepository) CountActive(ctx context.Context, orderID kernel.UUID) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&CandidateDTO{}).
		Where("order_id = ? AND status IN ?", orderID.Bytes(), activeStatuses()).
		Count(&n).Error
	return int(n), err
}

func activeStatuses() []string {
	return []string{string(candidate.StatusApplied), string(candidate.StatusSelected)}
}
