package payoutrepo

import (
	"context"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPayoutRepository implements ports.PayoutRepository using GORM.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add relies on the partial unique index over active payouts; a second
// active payout for the settlement comes back as a concurrency conflict.
func (r *GormPayoutRepository) Add(ctx context.Context, p *payout.Payout) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := fromDomain(p)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberrs.Write(err, "payout", p.ID().String())
	}
	return r.flushEvents(ctx, p)
}

func (r *GormPayoutRepository) Update(ctx context.Context, p *payout.Payout) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := fromDomain(p)
	dto.Version = p.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&PayoutDTO{}).
		Where("id = ? AND version = ?", dto.ID, p.Version()).
		Select("*").
		Omit("id", "settlement_id", "order_id", "helper_id", "requested_at").
		Updates(&dto)
	if result.Error != nil {
		return dberrs.Write(result.Error, "payout", p.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("payout", p.ID().String())
	}
	p.AdvanceVersion()
	return r.flushEvents(ctx, p)
}

func (r *GormPayoutRepository) flushEvents(ctx context.Context, p *payout.Payout) error {
	events := p.PendingEvents()
	if len(events) == 0 {
		return nil
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventFromDomain(e))
	}
	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}
	for _, e := range events {
		r.tracker.TrackAggregate(e.PayoutID, e)
	}
	p.ClearPendingEvents()
	return nil
}

func (r *GormPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto PayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "payout", id.String())
	}
	return toDomain(dto)
}

func (r *GormPayoutRepository) HasActive(ctx context.Context, settlementID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayoutDTO{}).
		Where("settlement_id = ? AND status IN ?", settlementID.Bytes(), activeStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func activeStatuses() []string {
	statuses := payout.ActiveStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
