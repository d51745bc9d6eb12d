package policyrepo

import (
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"

	"github.com/google/uuid"
)

type ChangeDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SettingType   string     `gorm:"type:varchar(32);not null;index:ix_setting_changes_setting"`
	EntityID      string     `gorm:"type:varchar(64);not null;index:ix_setting_changes_setting"`
	OldValue      string     `gorm:"type:varchar(64)"`
	NewValue      string     `gorm:"type:varchar(64)"`
	EffectiveFrom time.Time  `gorm:"type:timestamptz;not null;index"`
	Status        string     `gorm:"type:varchar(16);not null;index"`
	Reason        string     `gorm:"type:text"`
	Actor         string     `gorm:"type:varchar(128);not null"`
	RollbackOf    *uuid.UUID `gorm:"type:uuid"`
	AppliedAt     *time.Time `gorm:"type:timestamptz"`
	CreatedAt     time.Time  `gorm:"type:timestamptz;not null"`
}

func (ChangeDTO) TableName() string {
	return "setting_changes"
}

// SettingDTO holds the value in force for one setting and entity.
type SettingDTO struct {
	SettingType string    `gorm:"type:varchar(32);primaryKey"`
	EntityID    string    `gorm:"type:varchar(64);primaryKey"`
	Value       string    `gorm:"type:varchar(64);not null"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
}

func (SettingDTO) TableName() string {
	return "settings"
}

func fromDomain(c *policy.Change) ChangeDTO {
	st := c.State()
	return ChangeDTO{
		ID:            st.ID.Bytes(),
		SettingType:   string(st.SettingType),
		EntityID:      st.EntityID,
		OldValue:      st.OldValue,
		NewValue:      st.NewValue,
		EffectiveFrom: st.EffectiveFrom,
		Status:        string(st.Status),
		Reason:        st.Reason,
		Actor:         st.Actor,
		RollbackOf:    kernel.BytesPtr(st.RollbackOf),
		AppliedAt:     st.AppliedAt,
		CreatedAt:     st.CreatedAt,
	}
}

func toDomain(dto ChangeDTO) (*policy.Change, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	rollbackOf, err := kernel.UUIDPtrFromBytes(dto.RollbackOf)
	if err != nil {
		return nil, err
	}
	return policy.RestoreChange(policy.State{
		ID:            id,
		SettingType:   policy.SettingType(dto.SettingType),
		EntityID:      dto.EntityID,
		OldValue:      dto.OldValue,
		NewValue:      dto.NewValue,
		EffectiveFrom: dto.EffectiveFrom,
		Status:        policy.Status(dto.Status),
		Reason:        dto.Reason,
		Actor:         dto.Actor,
		RollbackOf:    rollbackOf,
		AppliedAt:     dto.AppliedAt,
		CreatedAt:     dto.CreatedAt,
	})
}
