// Package services provides domain services that compute across aggregates
// without owning state.
//
// The package includes:
//   - PricingCalculator: supply, VAT, deposit/balance split, commission and
//     net payout for a closing report
package services
