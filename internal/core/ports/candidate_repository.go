package ports

import (
	"context"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
)

// CandidateRepository stores helper applications.
type CandidateRepository interface {
	// Add persists a new candidate. A second active candidate for the same
	// order and helper violates a unique index and yields errs.ErrConcurrencyConflict.
	Add(ctx context.Context, c *candidate.Candidate) error
	Update(ctx context.Context, c *candidate.Candidate) error
	Get(ctx context.Context, id kernel.UUID) (*candidate.Candidate, error)

	// ListByOrder returns all candidates of an order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*candidate.Candidate, error)

	// CountActive counts applied and selected candidates of an order.
	CountActive(ctx context.Context, orderID kernel.UUID) (int, error)
}
