package ports

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
)

// Notification kinds recorded in the dedupe log.
const (
	NotificationBalanceReminder = "BALANCE_REMINDER"
)

// BalanceReminder asks a requester to pay an outstanding balance.
type BalanceReminder struct {
	OrderID     kernel.UUID
	RequesterID kernel.UUID
	Balance     int64
	DueAt       time.Time
}

// Notifier dispatches messages to requesters and helpers. Delivery is fire
// and forget: callers log failures and never roll back because of them.
type Notifier interface {
	StatusChanged(ctx context.Context, event order.StatusEvent) error
	BalanceReminder(ctx context.Context, reminder BalanceReminder) error
}

// NotificationLogRepository deduplicates notifications per order, kind and day.
type NotificationLogRepository interface {
	// Record inserts the (order, kind, day) entry and reports whether it was
	// new. A false result means the notification was already sent that day.
	Record(ctx context.Context, orderID kernel.UUID, kind string, day time.Time) (bool, error)
}
