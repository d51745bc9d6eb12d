package queries

import (
	"errors"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/guard"
)

var ErrGetPayoutHistoryQueryIsNotConstructed = errors.New(
	"GetPayoutHistoryQuery must be created via NewGetPayoutHistoryQuery constructor",
)

// GetPayoutHistoryQuery reads a payout together with its event log.
type GetPayoutHistoryQuery struct {
	payoutID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetPayoutHistoryQuery(payoutID kernel.UUID) (GetPayoutHistoryQuery, error) {
	if err := payoutID.Validate(); err != nil {
		return GetPayoutHistoryQuery{}, err
	}
	return GetPayoutHistoryQuery{payoutID: payoutID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPayoutHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetPayoutHistoryQueryIsNotConstructed)
}

func (q GetPayoutHistoryQuery) PayoutID() kernel.UUID { return q.payoutID }

type PayoutEventView struct {
	Previous   string
	New        string
	Reason     string
	Actor      string
	OccurredAt time.Time
}

// PayoutView carries the account number masked.
type PayoutView struct {
	ID             kernel.UUID
	SettlementID   kernel.UUID
	Amount         int64
	BankCode       string
	MaskedAccount  string
	Status         string
	RetryCount     int
	FailureCode    string
	FailureMessage string
	Events         []PayoutEventView
}
