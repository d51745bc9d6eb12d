package order

import (
	"fmt"

	"helperhub/internal/pkg/errs"
)

// PaymentStatus tracks requester-side money for an order.
type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "UNPAID"
	PaymentDepositPaid PaymentStatus = "DEPOSIT_PAID"
	PaymentBalancePaid PaymentStatus = "BALANCE_PAID"
	PaymentRefunded    PaymentStatus = "REFUNDED"
)

func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentUnpaid, PaymentDepositPaid, PaymentBalancePaid, PaymentRefunded:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("%q is not a valid payment status", p))
}
