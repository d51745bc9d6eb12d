package services_test

import (
	"math"
	"math/rand"
	"testing"

	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/services"
	"helperhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRates(t *testing.T, commission, deposit string) pricing.Rates {
	t.Helper()
	r, err := pricing.NewRates(decimal.RequireFromString(commission), decimal.RequireFromString(deposit))
	require.NoError(t, err)
	return r
}

func TestPricingCalculator_Calculate(t *testing.T) {
	calc := services.NewPricingCalculator()

	t.Run("reference example", func(t *testing.T) {
		s, err := calc.Calculate(pricing.Input{UnitPrice: 1200, Delivered: 100}, mustRates(t, "0.05", "0.30"))

		require.NoError(t, err)
		assert.Equal(t, int64(120000), s.Supply)
		assert.Equal(t, int64(12000), s.VAT)
		assert.Equal(t, int64(132000), s.Gross)
		assert.Equal(t, int64(39600), s.Deposit)
		assert.Equal(t, int64(92400), s.Balance)
		assert.Equal(t, int64(6600), s.Commission)
		assert.Equal(t, int64(125400), s.Net)
		assert.True(t, s.CommissionRate.Equal(decimal.RequireFromString("0.05")))
		assert.False(t, s.SupplyOverridden)
	})

	t.Run("returned, etc and extra costs add to supply", func(t *testing.T) {
		s, err := calc.Calculate(pricing.Input{
			UnitPrice:    1000,
			Delivered:    10,
			Returned:     2,
			EtcCount:     3,
			EtcUnitPrice: 500,
			ExtraCosts:   []pricing.ExtraCost{{Label: "toll", Amount: 2500}},
			Deductions:   1000,
		}, mustRates(t, "0.10", "0.20"))

		require.NoError(t, err)
		assert.Equal(t, int64(16000), s.Supply)
		assert.Equal(t, int64(1600), s.VAT)
		assert.Equal(t, int64(17600), s.Gross)
		assert.Equal(t, int64(1760), s.Commission)
		assert.Equal(t, int64(17600-1760-1000), s.Net)
	})

	t.Run("rounds half up", func(t *testing.T) {
		s, err := calc.Calculate(pricing.Input{UnitPrice: 5, Delivered: 1}, mustRates(t, "0.5", "0.5"))

		require.NoError(t, err)
		// vat 0.5 -> 1, gross 6, deposit 3, commission 3
		assert.Equal(t, int64(1), s.VAT)
		assert.Equal(t, int64(6), s.Gross)
		assert.Equal(t, int64(3), s.Deposit)
		assert.Equal(t, int64(3), s.Balance)
	})

	t.Run("supply override replaces computed supply", func(t *testing.T) {
		override := int64(100000)

		s, err := calc.Calculate(pricing.Input{UnitPrice: 1200, Delivered: 100, SupplyOverride: &override}, mustRates(t, "0.05", "0.30"))

		require.NoError(t, err)
		assert.Equal(t, int64(100000), s.Supply)
		assert.Equal(t, int64(110000), s.Gross)
		assert.True(t, s.SupplyOverridden)
	})

	t.Run("rejects negative input", func(t *testing.T) {
		_, err := calc.Calculate(pricing.Input{UnitPrice: 1200, Delivered: -1}, mustRates(t, "0.05", "0.30"))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects rates outside [0, 1]", func(t *testing.T) {
		_, err := calc.Calculate(pricing.Input{UnitPrice: 1}, pricing.Rates{
			Commission: decimal.RequireFromString("1.5"),
			Deposit:    decimal.Zero,
		})

		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects supply beyond the amount bound", func(t *testing.T) {
		rates := mustRates(t, "0.05", "0.30")

		_, err := calc.Calculate(pricing.Input{UnitPrice: math.MaxInt64 / 2, Delivered: 3}, rates)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = calc.Calculate(pricing.Input{ExtraCosts: []pricing.ExtraCost{
			{Label: "toll", Amount: math.MaxInt64},
			{Label: "parking", Amount: math.MaxInt64},
		}}, rates)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		override := pricing.MaxAmount + 1
		_, err = calc.Calculate(pricing.Input{SupplyOverride: &override}, rates)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = calc.Estimate(pricing.Input{UnitPrice: math.MaxInt64, Delivered: 2})
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("supply at the bound is accepted", func(t *testing.T) {
		s, err := calc.Calculate(pricing.Input{UnitPrice: pricing.MaxAmount, Delivered: 1}, mustRates(t, "0.05", "0.30"))

		require.NoError(t, err)
		assert.Equal(t, pricing.MaxAmount, s.Supply)
		assert.Equal(t, s.Gross, s.Deposit+s.Balance)
	})

	t.Run("is deterministic", func(t *testing.T) {
		in := pricing.Input{UnitPrice: 1333, Delivered: 77, Returned: 5}
		rates := mustRates(t, "0.033", "0.275")

		first, err := calc.Calculate(in, rates)
		require.NoError(t, err)
		second, err := calc.Calculate(in, rates)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestPricingCalculator_DepositPlusBalanceIsGross(t *testing.T) {
	calc := services.NewPricingCalculator()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		in := pricing.Input{
			UnitPrice:    rng.Int63n(100000),
			Delivered:    rng.Intn(500),
			Returned:     rng.Intn(50),
			EtcCount:     rng.Intn(20),
			EtcUnitPrice: rng.Int63n(10000),
		}
		rates := pricing.Rates{
			Commission: decimal.NewFromInt(rng.Int63n(1001)).Shift(-3),
			Deposit:    decimal.NewFromInt(rng.Int63n(1001)).Shift(-3),
		}

		s, err := calc.Calculate(in, rates)
		require.NoError(t, err)

		require.Equal(t, s.Gross, s.Deposit+s.Balance, "input %+v rates %+v", in, rates)
		require.Equal(t, s.Supply+s.VAT, s.Gross)
		require.GreaterOrEqual(t, s.Deposit, int64(0))
		require.GreaterOrEqual(t, s.Balance, int64(0))
	}
}

func TestPricingCalculator_Estimate(t *testing.T) {
	sub, err := services.NewPricingCalculator().Estimate(pricing.Input{UnitPrice: 1200, Delivered: 100})

	require.NoError(t, err)
	assert.Equal(t, pricing.Submission{Supply: 120000, VAT: 12000, Total: 132000}, sub)
}

func TestPricingCalculator_DepositFor(t *testing.T) {
	deposit, err := services.NewPricingCalculator().DepositFor(1200, 100, mustRates(t, "0.05", "0.30"))

	require.NoError(t, err)
	assert.Equal(t, int64(39600), deposit)
}
