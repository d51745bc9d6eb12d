package payout

import (
	"fmt"

	"helperhub/internal/pkg/errs"
)

type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusSent      Status = "SENT"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusRequested: {StatusSent},
	StatusSent:      {StatusSucceeded, StatusFailed},
	StatusFailed:    {StatusRequested},
}

func (s Status) Validate() error {
	switch s {
	case StatusRequested, StatusSent, StatusSucceeded, StatusFailed:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("payout status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// IsActive reports whether the payout still blocks a new request for its settlement.
func (s Status) IsActive() bool {
	return s == StatusRequested || s == StatusSent
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses lists the statuses covered by the one-active-payout rule.
func ActiveStatuses() []Status {
	return []Status{StatusRequested, StatusSent}
}
