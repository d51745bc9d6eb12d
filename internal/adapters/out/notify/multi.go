package notify

import (
	"context"
	"errors"

	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

// Multi delivers every notification to all of its notifiers and joins
// their errors. A failing notifier does not stop the others.
type Multi []ports.Notifier

func (m Multi) StatusChanged(ctx context.Context, e order.StatusEvent) error {
	var all []error
	for _, n := range m {
		all = append(all, n.StatusChanged(ctx, e))
	}
	return errors.Join(all...)
}

func (m Multi) BalanceReminder(ctx context.Context, r ports.BalanceReminder) error {
	var all []error
	for _, n := range m {
		all = append(all, n.BalanceReminder(ctx, r))
	}
	return errors.Join(all...)
}
