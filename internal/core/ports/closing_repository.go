package ports

import (
	"context"

	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/kernel"
)

// ClosingReportRepository stores closing reports with their frozen snapshots.
type ClosingReportRepository interface {
	Add(ctx context.Context, r *closing.Report) error
	// Update is a compare-and-set on the report version.
	Update(ctx context.Context, r *closing.Report) error
	Get(ctx context.Context, id kernel.UUID) (*closing.Report, error)
}
