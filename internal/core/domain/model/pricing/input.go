package pricing

import (
	"errors"
	"fmt"
	"strings"

	"helperhub/internal/pkg/errs"
)

// MaxAmount bounds every amount the calculator accepts or produces before
// VAT, so gross and its derived amounts always fit in an int64.
const MaxAmount int64 = 1_000_000_000_000_000

// ExtraCost is an additional line item reported by the helper.
type ExtraCost struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Input is everything the calculator reads from an order and its closing report.
type Input struct {
	UnitPrice      int64
	Delivered      int
	Returned       int
	EtcCount       int
	EtcUnitPrice   int64
	ExtraCosts     []ExtraCost
	SupplyOverride *int64
	Deductions     int64
}

func (in Input) Validate() error {
	var all []error
	for name, n := range map[string]int{"delivered": in.Delivered, "returned": in.Returned, "etcCount": in.EtcCount} {
		if n < 0 {
			all = append(all, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", n)))
		}
	}
	if in.UnitPrice < 0 {
		all = append(all, errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", in.UnitPrice)))
	}
	if in.EtcUnitPrice < 0 {
		all = append(all, errs.NewValueIsInvalidErrorWithCause("etcUnitPrice", fmt.Errorf("%d is negative", in.EtcUnitPrice)))
	}
	if in.Deductions < 0 {
		all = append(all, errs.NewValueIsInvalidErrorWithCause("deductions", fmt.Errorf("%d is negative", in.Deductions)))
	}
	if in.SupplyOverride != nil && *in.SupplyOverride < 0 {
		all = append(all, errs.NewValueIsInvalidErrorWithCause("supplyOverride", fmt.Errorf("%d is negative", *in.SupplyOverride)))
	}
	if in.SupplyOverride != nil && *in.SupplyOverride > MaxAmount {
		all = append(all, errs.NewValueIsOutOfRangeError("supplyOverride", *in.SupplyOverride, 0, MaxAmount))
	}
	if in.Deductions > MaxAmount {
		all = append(all, errs.NewValueIsOutOfRangeError("deductions", in.Deductions, 0, MaxAmount))
	}
	for i, c := range in.ExtraCosts {
		if strings.TrimSpace(c.Label) == "" {
			all = append(all, errs.NewValueIsRequiredError(fmt.Sprintf("extraCosts[%d].label", i)))
		}
		if c.Amount < 0 {
			all = append(all, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("extraCosts[%d].amount", i), fmt.Errorf("%d is negative", c.Amount)))
		}
	}
	return errors.Join(all...)
}
