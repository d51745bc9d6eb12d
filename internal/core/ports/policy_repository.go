package ports

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"
)

// SettingChangeRepository stores the setting change ledger.
type SettingChangeRepository interface {
	Add(ctx context.Context, c *policy.Change) error

	// Update writes c only while the stored status is still expected; a
	// concurrent writer that got there first yields errs.ErrConcurrencyConflict.
	Update(ctx context.Context, c *policy.Change, expected policy.Status) error

	Get(ctx context.Context, id kernel.UUID) (*policy.Change, error)

	// LatestActive returns the most recently applied active change of one
	// setting and entity, locked for the rest of the transaction.
	LatestActive(ctx context.Context, settingType policy.SettingType, entityID string) (*policy.Change, error)

	// FindDueIDs lists pending changes effective at or before now, oldest first.
	FindDueIDs(ctx context.Context, now time.Time) ([]kernel.UUID, error)
}

// SettingRepository holds the value currently in force per setting and entity.
type SettingRepository interface {
	// Get returns the stored value and whether one exists.
	Get(ctx context.Context, settingType policy.SettingType, entityID string) (string, bool, error)
	Put(ctx context.Context, settingType policy.SettingType, entityID, value string, at time.Time) error
	Delete(ctx context.Context, settingType policy.SettingType, entityID string) error
}

// SettingApplier validates and applies values of one setting type. Appliers
// are registered per type in an ApplierRegistry.
type SettingApplier interface {
	Validate(entityID, value string) error
	// Apply puts value in force; an empty value unsets the setting.
	Apply(ctx context.Context, settings SettingRepository, entityID, value string, at time.Time) error
}

// ApplierRegistry maps every setting type to its applier.
type ApplierRegistry map[policy.SettingType]SettingApplier
