package policy

import (
	"fmt"

	"helperhub/internal/pkg/errs"
)

// GlobalEntity is the entity id of platform-wide settings.
const GlobalEntity = "global"

// SettingType names a policy-controlled setting.
type SettingType string

const (
	// CommissionRate applies globally or to a single helper.
	CommissionRate SettingType = "COMMISSION_RATE"
	// DepositRate applies globally.
	DepositRate SettingType = "DEPOSIT_RATE"
)

func (t SettingType) Validate() error {
	switch t {
	case CommissionRate, DepositRate:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("setting type is invalid", fmt.Errorf("%q is not a known setting", t))
}
