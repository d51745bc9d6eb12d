package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories returned
// after Begin share its transaction. Status events of orders written
// through it are dispatched to the Notifier once Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	CandidateRepository() CandidateRepository
	ClosingReportRepository() ClosingReportRepository
	SettlementRepository() SettlementRepository
	PayoutRepository() PayoutRepository
	SettingChangeRepository() SettingChangeRepository
	SettingRepository() SettingRepository
	IncidentRepository() IncidentRepository
	RefundRepository() RefundRepository
	NotificationLogRepository() NotificationLogRepository
}
