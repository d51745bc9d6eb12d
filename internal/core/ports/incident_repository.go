package ports

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/refund"
)

// IncidentRepository stores incidents.
type IncidentRepository interface {
	Add(ctx context.Context, i *incident.Incident) error
	Get(ctx context.Context, id kernel.UUID) (*incident.Incident, error)

	// Resolve marks an open incident resolved.
	Resolve(ctx context.Context, i *incident.Incident) error

	// FindDueIDs lists open incidents past their deadline whose deduction is not applied.
	FindDueIDs(ctx context.Context, now time.Time) ([]kernel.UUID, error)

	// MarkDeductionApplied flips the deduction flag only if it is still false
	// and reports whether this call flipped it.
	MarkDeductionApplied(ctx context.Context, i *incident.Incident) (bool, error)
}

// RefundRepository records refunds owed to requesters.
type RefundRepository interface {
	Add(ctx context.Context, r refund.Refund) error
}
