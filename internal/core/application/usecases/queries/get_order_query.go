// Package queries contains the read side of the engine. Handlers run raw
// SQL against the tables the repositories write and return flat read
// models; they never load aggregates.
package queries

import (
	"errors"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order with its current staffing.
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// OrderView is the read model of an order. Status and PaymentStatus are
// the stored names.
type OrderView struct {
	ID              kernel.UUID
	RequesterID     kernel.UUID
	MatchedHelperID *kernel.UUID
	Status          string
	PaymentStatus   string
	UnitPrice       int64
	Quantity        int
	ScheduledDate   time.Time
	MaxHelpers      int
	CurrentHelpers  int
	DepositAmount   int64
	BalanceAmount   int64
	BalanceDueAt    *time.Time
	ClosedAt        *time.Time
	Hidden          bool
	CreatedAt       time.Time
	Version         int
}
