// Package ports defines the contracts between the application core and its
// adapters: transaction-bound repositories, the unit of work and the
// notification dispatcher.
package ports

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
)

// OrderFilter selects orders for reconciliation sweeps. Zero fields do not filter.
type OrderFilter struct {
	Status           order.Status
	ScheduledBefore  *time.Time
	ClosedBefore     *time.Time
	BalanceDueBefore *time.Time
	// Unassigned keeps orders without any selected helper.
	Unassigned bool
	// VisibleOnly drops hidden orders.
	VisibleOnly bool
	Limit       int
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order with a compare-and-set on its version and
	// appends its pending status events in the same transaction. A stale
	// version yields errs.ErrConcurrencyConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindIDs lists ids of orders matching the filter, oldest first.
	FindIDs(ctx context.Context, filter OrderFilter) ([]kernel.UUID, error)
}
