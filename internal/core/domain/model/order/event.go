package order

import (
	"time"

	"helperhub/internal/core/domain/model/kernel"
)

// StatusEvent is the append-only record of one status change.
type StatusEvent struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	RequesterID  kernel.UUID
	HelperID     *kernel.UUID
	Previous     Status
	New          Status
	Reason       string
	Actor        string
	OverrideUsed bool
	OccurredAt   time.Time
}
