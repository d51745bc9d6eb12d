// Package refund records deposits owed back to requesters.
package refund

import (
	"errors"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
)

// StatusRequested is the only status the engine writes; paying the refund
// out is handled outside this system.
const StatusRequested = "REQUESTED"

// Refund is an immutable record of money owed to the requester.
type Refund struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	RequesterID kernel.UUID
	Amount      int64
	Reason      string
	Status      string
	CreatedAt   time.Time
}

func NewRefund(orderID, requesterID kernel.UUID, amount int64, reason string, at time.Time) (Refund, error) {
	if err := errors.Join(orderID.Validate(), requesterID.Validate()); err != nil {
		return Refund{}, err
	}
	if amount <= 0 {
		return Refund{}, errs.NewValueIsOutOfRangeError("amount", amount, 1, "unbounded")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Refund{}, errs.NewValueIsRequiredError("reason")
	}
	return Refund{
		ID:          kernel.NewUUID(),
		OrderID:     orderID,
		RequesterID: requesterID,
		Amount:      amount,
		Reason:      reason,
		Status:      StatusRequested,
		CreatedAt:   at,
	}, nil
}
