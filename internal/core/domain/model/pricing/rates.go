package pricing

import (
	"fmt"

	"helperhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// VATRate is the value added tax applied on top of the supply amount.
var VATRate = decimal.RequireFromString("0.10")

// Rates are the policy-controlled percentages resolved at approval time.
type Rates struct {
	Commission decimal.Decimal `json:"commission"`
	Deposit    decimal.Decimal `json:"deposit"`
}

// NewRates builds rates and checks both are fractions in [0, 1].
func NewRates(commission, deposit decimal.Decimal) (Rates, error) {
	r := Rates{Commission: commission, Deposit: deposit}
	if err := r.Validate(); err != nil {
		return Rates{}, err
	}
	return r, nil
}

func (r Rates) Validate() error {
	if err := ValidateRate("commission rate", r.Commission); err != nil {
		return err
	}
	return ValidateRate("deposit rate", r.Deposit)
}

// ValidateRate fails unless rate is within [0, 1].
func ValidateRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError(name, rate.String(), 0, 1)
	}
	return nil
}

// ParseRate reads a rate stored as a decimal string.
func ParseRate(name, value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%q: %w", value, err))
	}
	if err := ValidateRate(name, rate); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}
