package pricing

import "github.com/shopspring/decimal"

// Snapshot is the frozen result of one calculation. It is stored as JSON on
// the approved closing report and copied into the settlement; it is never
// recomputed from current rates.
type Snapshot struct {
	Supply           int64           `json:"supply"`
	VAT              int64           `json:"vat"`
	Gross            int64           `json:"gross"`
	Deposit          int64           `json:"deposit"`
	Balance          int64           `json:"balance"`
	Commission       int64           `json:"commission"`
	Deductions       int64           `json:"deductions"`
	Net              int64           `json:"net"`
	VATRate          decimal.Decimal `json:"vatRate"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	DepositRate      decimal.Decimal `json:"depositRate"`
	SupplyOverridden bool            `json:"supplyOverridden"`
}

// Submission is the helper-facing estimate stored when a report is submitted.
type Submission struct {
	Supply int64 `json:"supply"`
	VAT    int64 `json:"vat"`
	Total  int64 `json:"total"`
}
