package commands

import (
	"context"
	"fmt"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/ports"
)

// resolveRates reads the rates in force. Commission falls back from the
// helper's own setting to the global one and then to defaults; the deposit
// rate is global only.
func resolveRates(
	ctx context.Context,
	settings ports.SettingRepository,
	helperID *kernel.UUID,
	defaults pricing.Rates,
) (pricing.Rates, error) {
	rates := defaults

	entities := []string{policy.GlobalEntity}
	if helperID != nil {
		entities = []string{helperID.String(), policy.GlobalEntity}
	}
	for _, entity := range entities {
		value, ok, err := settings.Get(ctx, policy.CommissionRate, entity)
		if err != nil {
			return pricing.Rates{}, err
		}
		if !ok {
			continue
		}
		if rates.Commission, err = pricing.ParseRate("commission rate", value); err != nil {
			return pricing.Rates{}, fmt.Errorf("stored %s for %s: %w", policy.CommissionRate, entity, err)
		}
		break
	}

	value, ok, err := settings.Get(ctx, policy.DepositRate, policy.GlobalEntity)
	if err != nil {
		return pricing.Rates{}, err
	}
	if ok {
		if rates.Deposit, err = pricing.ParseRate("deposit rate", value); err != nil {
			return pricing.Rates{}, fmt.Errorf("stored %s: %w", policy.DepositRate, err)
		}
	}
	return rates, nil
}
