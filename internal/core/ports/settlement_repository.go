package ports

import (
	"context"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/settlement"
)

// SettlementRepository stores settlements and their append-only audit trail.
type SettlementRepository interface {
	// Add persists a new settlement with its pending audit entries.
	Add(ctx context.Context, s *settlement.Settlement) error

	// Update is a compare-and-set on the version; pending audit entries are
	// appended in the same transaction.
	Update(ctx context.Context, s *settlement.Settlement) error

	Get(ctx context.Context, id kernel.UUID) (*settlement.Settlement, error)

	// ListByOrder returns every helper's settlement of an order.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*settlement.Settlement, error)

	// GetByOrderAndHelper returns the settlement of one helper on one order.
	GetByOrderAndHelper(ctx context.Context, orderID, helperID kernel.UUID) (*settlement.Settlement, error)
}
