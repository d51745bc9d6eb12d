package queries

import (
	"errors"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/guard"
)

var ErrGetSettlementStatementQueryIsNotConstructed = errors.New(
	"GetSettlementStatementQuery must be created via NewGetSettlementStatementQuery constructor",
)

// GetSettlementStatementQuery lists the settlements of a period line by
// line, as exported to finance.
type GetSettlementStatementQuery struct {
	period SettlementPeriod
	guard  guard.ConstructorGuard
}

func NewGetSettlementStatementQuery(period SettlementPeriod) (GetSettlementStatementQuery, error) {
	if err := period.validate(); err != nil {
		return GetSettlementStatementQuery{}, err
	}
	return GetSettlementStatementQuery{period: period, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSettlementStatementQuery) Validate() error {
	return q.guard.Validate(ErrGetSettlementStatementQueryIsNotConstructed)
}

func (q GetSettlementStatementQuery) Period() SettlementPeriod { return q.period }

type StatementLine struct {
	SettlementID  kernel.UUID
	OrderID       kernel.UUID
	HelperID      kernel.UUID
	ScheduledDate time.Time
	Status        string
	Gross         int64
	Commission    int64
	Deduction     int64
	Net           int64
	CreatedAt     time.Time
}
