package queries

import (
	"errors"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/guard"
)

var ErrListOrderCandidatesQueryIsNotConstructed = errors.New(
	"ListOrderCandidatesQuery must be created via NewListOrderCandidatesQuery constructor",
)

// ListOrderCandidatesQuery lists the applications of an order, oldest
// first. ActiveOnly keeps applied and selected candidates.
type ListOrderCandidatesQuery struct {
	orderID    kernel.UUID
	activeOnly bool
	guard      guard.ConstructorGuard
}

func NewListOrderCandidatesQuery(orderID kernel.UUID, activeOnly bool) (ListOrderCandidatesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return ListOrderCandidatesQuery{}, err
	}
	return ListOrderCandidatesQuery{
		orderID:    orderID,
		activeOnly: activeOnly,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrderCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrListOrderCandidatesQueryIsNotConstructed)
}

func (q ListOrderCandidatesQuery) OrderID() kernel.UUID { return q.orderID }
func (q ListOrderCandidatesQuery) ActiveOnly() bool     { return q.activeOnly }

type CandidateView struct {
	ID        kernel.UUID
	HelperID  kernel.UUID
	Status    string
	AppliedAt time.Time
}
