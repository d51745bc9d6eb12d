package queries

import (
	"errors"

	"helperhub/internal/pkg/guard"
)

var ErrGetSettlementTotalsQueryIsNotConstructed = errors.New(
	"GetSettlementTotalsQuery must be created via NewGetSettlementTotalsQuery constructor",
)

// GetSettlementTotalsQuery sums settlements of a period per status.
type GetSettlementTotalsQuery struct {
	period SettlementPeriod
	guard  guard.ConstructorGuard
}

func NewGetSettlementTotalsQuery(period SettlementPeriod) (GetSettlementTotalsQuery, error) {
	if err := period.validate(); err != nil {
		return GetSettlementTotalsQuery{}, err
	}
	return GetSettlementTotalsQuery{period: period, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSettlementTotalsQuery) Validate() error {
	return q.guard.Validate(ErrGetSettlementTotalsQueryIsNotConstructed)
}

func (q GetSettlementTotalsQuery) Period() SettlementPeriod { return q.period }

type SettlementTotals struct {
	Status     string
	Count      int
	Gross      int64
	Commission int64
	Deduction  int64
	Net        int64
}
