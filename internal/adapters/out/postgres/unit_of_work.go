// Package postgres provides the GORM-based Unit of Work of the engine.
// A unit of work wraps one database transaction and hands out repositories
// bound to it. Repositories report what they wrote through TrackAggregate;
// once Commit succeeds the tracked order status events are passed to the
// Notifier and counted in metrics.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if err := o.Cancel(reason, actor, now); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit is a no-op returning
// gorm.ErrInvalidTransaction, which the deferred call ignores.
//
// Each UnitOfWork instance is single-use per command and must not be shared
// between goroutines.
package postgres

import (
	"context"
	"log/slog"

	"helperhub/internal/adapters/out/postgres/candidaterepo"
	"helperhub/internal/adapters/out/postgres/closingrepo"
	"helperhub/internal/adapters/out/postgres/incidentrepo"
	"helperhub/internal/adapters/out/postgres/notificationrepo"
	"helperhub/internal/adapters/out/postgres/orderrepo"
	"helperhub/internal/adapters/out/postgres/payoutrepo"
	"helperhub/internal/adapters/out/postgres/policyrepo"
	"helperhub/internal/adapters/out/postgres/refundrepo"
	"helperhub/internal/adapters/out/postgres/settlementrepo"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/metrics"

	"gorm.io/gorm"
)

// trackedAggregate is something a repository wrote during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewGormUnitOfWorkFactory returns a factory. notifier may be nil, in which
// case committed status events are only counted.
func NewGormUnitOfWorkFactory(db *gorm.DB, notifier ports.Notifier, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		notifier:          f.notifier,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and collects the
// events its repositories wrote.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	notifier          ports.Notifier
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. A second call while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit makes the transaction's writes permanent and then dispatches the
// tracked events. Dispatch failures are logged and never returned.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.dispatch(ctx)
	return nil
}

// Rollback discards the transaction and everything tracked in it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) dispatch(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		switch e := t.Aggregate.(type) {
		case order.StatusEvent:
			metrics.IncOrderTransition(previousName(e), e.New.String(), e.OverrideUsed)
			if uow.notifier == nil {
				continue
			}
			err := uow.notifier.StatusChanged(ctx, e)
			metrics.IncNotification("status_changed", err)
			if err != nil {
				uow.logger.ErrorContext(ctx, "status notification failed",
					"order_id", e.OrderID.String(),
					"status", e.New.String(),
					"error", err)
			}
		case payout.Event:
			metrics.IncPayoutEvent(string(e.New))
		}
	}
}

func previousName(e order.StatusEvent) string {
	if e.Previous == order.Unknown {
		return ""
	}
	return e.Previous.String()
}

// TrackAggregate is called by repositories after each successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction or, outside one, the pool.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CandidateRepository() ports.CandidateRepository {
	return candidaterepo.NewGormCandidateRepository(uow.conn())
}

func (uow *GormUnitOfWork) ClosingReportRepository() ports.ClosingReportRepository {
	return closingrepo.NewGormClosingReportRepository(uow.conn())
}

func (uow *GormUnitOfWork) SettlementRepository() ports.SettlementRepository {
	return settlementrepo.NewGormSettlementRepository(uow.conn())
}

func (uow *GormUnitOfWork) PayoutRepository() ports.PayoutRepository {
	return payoutrepo.NewGormPayoutRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) SettingChangeRepository() ports.SettingChangeRepository {
	return policyrepo.NewGormSettingChangeRepository(uow.conn())
}

func (uow *GormUnitOfWork) SettingRepository() ports.SettingRepository {
	return policyrepo.NewGormSettingRepository(uow.conn())
}

func (uow *GormUnitOfWork) IncidentRepository() ports.IncidentRepository {
	return incidentrepo.NewGormIncidentRepository(uow.conn())
}

func (uow *GormUnitOfWork) RefundRepository() ports.RefundRepository {
	return refundrepo.NewGormRefundRepository(uow.conn())
}

func (uow *GormUnitOfWork) NotificationLogRepository() ports.NotificationLogRepository {
	return notificationrepo.NewGormNotificationLogRepository(uow.conn())
}
