package kernel

import (
	"github.com/shopspring/decimal"
)

// Amounts are int64 in the smallest currency unit (won). Rates are decimals.

// MulRoundHalfUp returns round_half_up(amount × rate). Amounts handled by the
// domain are never negative, so decimal's half-away-from-zero rounding is
// half-up here.
func MulRoundHalfUp(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}
