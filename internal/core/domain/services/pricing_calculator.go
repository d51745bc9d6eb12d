package services

import (
	"errors"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PricingCalculator is a pure, deterministic domain service. For the same
// input and rates it always returns the same snapshot, and it never reads
// rates on its own: the caller resolves them once and passes them in.
//
// Formulas (all rounding is half-up to whole currency units):
//
//	supply     = unitPrice*(delivered+returned) + etcUnitPrice*etcCount + sum(extraCosts)
//	vat        = round(supply * 0.10)
//	gross      = supply + vat
//	deposit    = round(gross * depositRate)
//	balance    = gross - deposit
//	commission = round(gross * commissionRate)
//	net        = gross - commission - deductions
//
// A supply override replaces the computed supply; everything after it is
// derived as usual. Supply above pricing.MaxAmount is rejected.
//
// Example usage:
//
//	snapshot, err := services.NewPricingCalculator().Calculate(pricing.Input{
//	    UnitPrice: 1200,
//	    Delivered: 100,
//	}, rates)
type PricingCalculator struct{}

func NewPricingCalculator() PricingCalculator {
	return PricingCalculator{}
}

// Calculate produces the approval snapshot.
func (PricingCalculator) Calculate(in pricing.Input, rates pricing.Rates) (pricing.Snapshot, error) {
	if err := errors.Join(in.Validate(), rates.Validate()); err != nil {
		return pricing.Snapshot{}, err
	}

	var supply int64
	if in.SupplyOverride != nil {
		supply = *in.SupplyOverride
	} else {
		computed, err := computedSupply(in)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		supply = computed
	}
	vat := kernel.MulRoundHalfUp(supply, pricing.VATRate)
	gross := supply + vat
	deposit := kernel.MulRoundHalfUp(gross, rates.Deposit)
	commission := kernel.MulRoundHalfUp(gross, rates.Commission)

	return pricing.Snapshot{
		Supply:           supply,
		VAT:              vat,
		Gross:            gross,
		Deposit:          deposit,
		Balance:          gross - deposit,
		Commission:       commission,
		Deductions:       in.Deductions,
		Net:              gross - commission - in.Deductions,
		VATRate:          pricing.VATRate,
		CommissionRate:   rates.Commission,
		DepositRate:      rates.Deposit,
		SupplyOverridden: in.SupplyOverride != nil,
	}, nil
}

// Estimate returns the supply/VAT/total shown to the helper on submission.
// It needs no rates.
func (PricingCalculator) Estimate(in pricing.Input) (pricing.Submission, error) {
	if err := in.Validate(); err != nil {
		return pricing.Submission{}, err
	}
	supply, err := computedSupply(in)
	if err != nil {
		return pricing.Submission{}, err
	}
	vat := kernel.MulRoundHalfUp(supply, pricing.VATRate)
	return pricing.Submission{Supply: supply, VAT: vat, Total: supply + vat}, nil
}

// DepositFor estimates the upfront deposit of a freshly posted order, where
// every unit is assumed delivered.
func (c PricingCalculator) DepositFor(unitPrice int64, quantity int, rates pricing.Rates) (int64, error) {
	s, err := c.Calculate(pricing.Input{UnitPrice: unitPrice, Delivered: quantity}, rates)
	if err != nil {
		return 0, err
	}
	return s.Deposit, nil
}

// computedSupply sums in decimal so oversized inputs are reported instead of
// wrapping around.
func computedSupply(in pricing.Input) (int64, error) {
	units := decimal.NewFromInt(int64(in.Delivered)).Add(decimal.NewFromInt(int64(in.Returned)))
	supply := decimal.NewFromInt(in.UnitPrice).Mul(units).
		Add(decimal.NewFromInt(in.EtcUnitPrice).Mul(decimal.NewFromInt(int64(in.EtcCount))))
	for _, c := range in.ExtraCosts {
		supply = supply.Add(decimal.NewFromInt(c.Amount))
	}
	if supply.GreaterThan(decimal.NewFromInt(pricing.MaxAmount)) {
		return 0, errs.NewValueIsOutOfRangeError("supply", supply.String(), 0, pricing.MaxAmount)
	}
	return supply.IntPart(), nil
}
