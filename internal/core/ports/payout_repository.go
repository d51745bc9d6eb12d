package ports

import (
	"context"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/payout"
)

// PayoutRepository stores payouts and their event log.
type PayoutRepository interface {
	// Add persists a new payout. A second REQUESTED or SENT payout for the
	// same settlement violates a partial unique index and yields
	// errs.ErrConcurrencyConflict.
	Add(ctx context.Context, p *payout.Payout) error

	// Update is a compare-and-set on the version; pending events are
	// appended in the same transaction.
	Update(ctx context.Context, p *payout.Payout) error

	Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error)

	// HasActive reports whether the settlement has a REQUESTED or SENT payout.
	HasActive(ctx context.Context, settlementID kernel.UUID) (bool, error)
}
