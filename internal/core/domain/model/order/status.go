package order

import (
	"fmt"

	"helperhub/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	AwaitingDeposit
	Open
	Scheduled
	InProgress
	ClosingSubmitted
	FinalAmountConfirmed
	BalancePaid
	SettlementPaid
	Closed
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:              "UNKNOWN",
	AwaitingDeposit:      "AWAITING_DEPOSIT",
	Open:                 "OPEN",
	Scheduled:            "SCHEDULED",
	InProgress:           "IN_PROGRESS",
	ClosingSubmitted:     "CLOSING_SUBMITTED",
	FinalAmountConfirmed: "FINAL_AMOUNT_CONFIRMED",
	BalancePaid:          "BALANCE_PAID",
	SettlementPaid:       "SETTLEMENT_PAID",
	Closed:               "CLOSED",
	Cancelled:            "CANCELLED",
}

// transitions is the complete edge table of the state machine. CANCELLED is
// reachable from every non-terminal state and is added in init.
var transitions = map[Status][]Status{
	AwaitingDeposit:      {Open},
	Open:                 {Scheduled},
	Scheduled:            {InProgress, Open},
	InProgress:           {ClosingSubmitted},
	ClosingSubmitted:     {FinalAmountConfirmed, InProgress},
	FinalAmountConfirmed: {BalancePaid},
	BalancePaid:          {SettlementPaid},
	SettlementPaid:       {Closed},
}

func init() {
	for from := range transitions {
		transitions[from] = append(transitions[from], Cancelled)
	}
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		AwaitingDeposit, Open, Scheduled, InProgress, ClosingSubmitted,
		FinalAmountConfirmed, BalancePaid, SettlementPaid, Closed, Cancelled,
	}
}

// ParseStatus maps a persisted name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name && s != Unknown {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", name))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no transition may leave s, not even a forced one.
func (s Status) IsTerminal() bool {
	return s == Closed || s == Cancelled
}

// CanTransitionTo reports whether from -> to is a declared edge.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Is reports whether s is one of the given statuses.
func (s Status) Is(statuses ...Status) bool {
	for _, other := range statuses {
		if s == other {
			return true
		}
	}
	return false
}
