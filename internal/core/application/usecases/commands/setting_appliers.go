package commands

import (
	"context"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/errs"
)

// rateApplier puts a rate setting in force. Per-helper entities are helper ids.
type rateApplier struct {
	settingType policy.SettingType
	name        string
	globalOnly  bool
}

func (a rateApplier) Validate(entityID, value string) error {
	if entityID != policy.GlobalEntity {
		if a.globalOnly {
			return errs.NewValueIsInvalidErrorWithCause("entity",
				fmt.Errorf("%s is global only, got %q", a.name, entityID))
		}
		if _, err := kernel.UUIDFromString(entityID); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("entity", err)
		}
	}
	if value == "" {
		return nil
	}
	_, err := pricing.ParseRate(a.name, value)
	return err
}

func (a rateApplier) Apply(ctx context.Context, settings ports.SettingRepository, entityID, value string, at time.Time) error {
	if err := a.Validate(entityID, value); err != nil {
		return err
	}
	if value == "" {
		return settings.Delete(ctx, a.settingType, entityID)
	}
	return settings.Put(ctx, a.settingType, entityID, value, at)
}

// NewApplierRegistry returns the appliers of every known setting type.
func NewApplierRegistry() ports.ApplierRegistry {
	return ports.ApplierRegistry{
		policy.CommissionRate: rateApplier{settingType: policy.CommissionRate, name: "commission rate"},
		policy.DepositRate:    rateApplier{settingType: policy.DepositRate, name: "deposit rate", globalOnly: true},
	}
}

func lookupApplier(registry ports.ApplierRegistry, settingType policy.SettingType) (ports.SettingApplier, error) {
	applier, ok := registry[settingType]
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("setting type",
			fmt.Errorf("no applier registered for %s", settingType))
	}
	return applier, nil
}
