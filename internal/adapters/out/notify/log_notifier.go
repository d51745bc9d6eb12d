package notify

import (
	"context"
	"log/slog"

	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

// LogNotifier writes notifications to a structured logger instead of
// delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) StatusChanged(ctx context.Context, e order.StatusEvent) error {
	n.logger.InfoContext(ctx, "order status changed",
		"order_id", e.OrderID.String(),
		"previous", newStatusChangedMessage(e).Previous,
		"status", e.New.String(),
		"actor", e.Actor,
		"override", e.OverrideUsed)
	return nil
}

func (n *LogNotifier) BalanceReminder(ctx context.Context, r ports.BalanceReminder) error {
	n.logger.InfoContext(ctx, "balance reminder",
		"order_id", r.OrderID.String(),
		"requester_id", r.RequesterID.String(),
		"balance", r.Balance,
		"due_at", r.DueAt)
	return nil
}
