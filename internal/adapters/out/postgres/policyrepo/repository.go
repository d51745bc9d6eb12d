package policyrepo

import (
	"context"
	"errors"
	"time"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingChangeRepository implements ports.SettingChangeRepository using GORM.
type GormSettingChangeRepository struct {
	db *gorm.DB
}

func NewGormSettingChangeRepository(db *gorm.DB) *GormSettingChangeRepository {
	return &GormSettingChangeRepository{db: db}
}

func (r *GormSettingChangeRepository) Add(ctx context.Context, c *policy.Change) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberrs.Write(err, "setting change", c.ID().String())
	}
	return nil
}

// Update writes c only while the stored status is still expected.
func (r *GormSettingChangeRepository) Update(ctx context.Context, c *policy.Change, expected policy.Status) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&ChangeDTO{}).
		Where("id = ? AND status = ?", dto.ID, string(expected)).
		Updates(map[string]any{
			"status":     dto.Status,
			"old_value":  dto.OldValue,
			"applied_at": dto.AppliedAt,
		})
	if result.Error != nil {
		return dberrs.Write(result.Error, "setting change", c.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("setting change", c.ID().String())
	}
	return nil
}

func (r *GormSettingChangeRepository) Get(ctx context.Context, id kernel.UUID) (*policy.Change, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto ChangeDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "setting change", id.String())
	}
	return toDomain(dto)
}

func (r *GormSettingChangeRepository) LatestActive(ctx context.Context, settingType policy.SettingType, entityID string) (*policy.Change, error) {
	var dto ChangeDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("setting_type = ? AND entity_id = ? AND status = ?", string(settingType), entityID, string(policy.StatusActive)).
		Order("applied_at DESC NULLS LAST, created_at DESC").
		First(&dto).Error
	if err != nil {
		return nil, dberrs.Read(err, "active setting change", string(settingType)+"/"+entityID)
	}
	return toDomain(dto)
}

func (r *GormSettingChangeRepository) FindDueIDs(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&ChangeDTO{}).
		Where("status = ? AND effective_from <= ?", string(policy.StatusPending), now).
		Order("effective_from, created_at").
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

// GormSettingRepository implements ports.SettingRepository using GORM.
type GormSettingRepository struct {
	db *gorm.DB
}

func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func (r *GormSettingRepository) Get(ctx context.Context, settingType policy.SettingType, entityID string) (string, bool, error) {
	var dto SettingDTO
	err := r.db.WithContext(ctx).
		First(&dto, "setting_type = ? AND entity_id = ?", string(settingType), entityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return dto.Value, true, nil
}

func (r *GormSettingRepository) Put(ctx context.Context, settingType policy.SettingType, entityID, value string, at time.Time) error {
	dto := SettingDTO{
		SettingType: string(settingType),
		EntityID:    entityID,
		Value:       value,
		UpdatedAt:   at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_type"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&dto).Error
}

func (r *GormSettingRepository) Delete(ctx context.Context, settingType policy.SettingType, entityID string) error {
	return r.db.WithContext(ctx).
		Where("setting_type = ? AND entity_id = ?", string(settingType), entityID).
		Delete(&SettingDTO{}).Error
}
