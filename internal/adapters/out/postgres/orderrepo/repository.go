package orderrepo

import (
	"context"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker collects what a transaction wrote, for dispatch after commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order together with any pending status events.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberrs.Write(err, "order", aggregate.ID().String())
	}
	return r.flushEvents(ctx, aggregate)
}

// Update writes every column if the stored version still matches, then
// advances the version and appends the pending status events.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return dberrs.Write(result.Error, "order", aggregate.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("order", aggregate.ID().String())
	}

	aggregate.AdvanceVersion()
	return r.flushEvents(ctx, aggregate)
}

func (r *GormOrderRepository) flushEvents(ctx context.Context, aggregate *order.Order) error {
	events := aggregate.PendingEvents()
	if len(events) == 0 {
		return nil
	}

	dtos := make([]StatusEventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventFromDomain(e))
	}
	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for _, e := range events {
		r.tracker.TrackAggregate(e.OrderID, e)
	}
	aggregate.ClearPendingEvents()
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order with SELECT ... FOR UPDATE.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(_ context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "order", id.String())
	}
	return toDomain(dto)
}

// FindIDs lists matching order ids, oldest first.
func (r *GormOrderRepository) FindIDs(ctx context.Context, filter ports.OrderFilter) ([]kernel.UUID, error) {
	q := r.db.WithContext(ctx).Model(&OrderDTO{})
	if filter.Status != order.Unknown {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.ScheduledBefore != nil {
		q = q.Where("scheduled_date < ?", *filter.ScheduledBefore)
	}
	if filter.ClosedBefore != nil {
		q = q.Where("closed_at < ?", *filter.ClosedBefore)
	}
	if filter.BalanceDueBefore != nil {
		q = q.Where("balance_due_at < ?", *filter.BalanceDueBefore)
	}
	if filter.Unassigned {
		q = q.Where("current_helpers = 0")
	}
	if filter.VisibleOnly {
		q = q.Where("hidden_at IS NULL")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var raw []uuid.UUID
	if err := q.Order("created_at, id").Pluck("id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, b := range raw {
		id, err := kernel.UUIDFromBytes(b[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
