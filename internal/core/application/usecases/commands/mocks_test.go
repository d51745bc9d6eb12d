package commands_test

import (
	"context"
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/refund"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindIDs(ctx context.Context, filter ports.OrderFilter) ([]kernel.UUID, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockCandidateRepository struct{ mock.Mock }

func (m *MockCandidateRepository) Add(ctx context.Context, c *candidate.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCandidateRepository) Get(ctx context.Context, id kernel.UUID) (*candidate.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*candidate.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*candidate.Candidate, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*candidate.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) CountActive(ctx context.Context, orderID kernel.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

type MockClosingReportRepository struct{ mock.Mock }

func (m *MockClosingReportRepository) Add(ctx context.Context, r *closing.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockClosingReportRepository) Update(ctx context.Context, r *closing.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockClosingReportRepository) Get(ctx context.Context, id kernel.UUID) (*closing.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closing.Report), args.Error(1)
}

type MockSettlementRepository struct{ mock.Mock }

func (m *MockSettlementRepository) Add(ctx context.Context, s *settlement.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) Update(ctx context.Context, s *settlement.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*settlement.Settlement, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) GetByOrderAndHelper(ctx context.Context, orderID, helperID kernel.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, orderID, helperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

type MockPayoutRepository struct{ mock.Mock }

func (m *MockPayoutRepository) Add(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) Update(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) HasActive(ctx context.Context, settlementID kernel.UUID) (bool, error) {
	args := m.Called(ctx, settlementID)
	return args.Bool(0), args.Error(1)
}

type MockSettingChangeRepository struct{ mock.Mock }

func (m *MockSettingChangeRepository) Add(ctx context.Context, c *policy.Change) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSettingChangeRepository) Update(ctx context.Context, c *policy.Change, expected policy.Status) error {
	args := m.Called(ctx, c, expected)
	return args.Error(0)
}

func (m *MockSettingChangeRepository) Get(ctx context.Context, id kernel.UUID) (*policy.Change, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*policy.Change), args.Error(1)
}

func (m *MockSettingChangeRepository) LatestActive(ctx context.Context, settingType policy.SettingType, entityID string) (*policy.Change, error) {
	args := m.Called(ctx, settingType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*policy.Change), args.Error(1)
}

func (m *MockSettingChangeRepository) FindDueIDs(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockSettingRepository struct{ mock.Mock }

func (m *MockSettingRepository) Get(ctx context.Context, settingType policy.SettingType, entityID string) (string, bool, error) {
	args := m.Called(ctx, settingType, entityID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSettingRepository) Put(ctx context.Context, settingType policy.SettingType, entityID, value string, at time.Time) error {
	args := m.Called(ctx, settingType, entityID, value, at)
	return args.Error(0)
}

func (m *MockSettingRepository) Delete(ctx context.Context, settingType policy.SettingType, entityID string) error {
	args := m.Called(ctx, settingType, entityID)
	return args.Error(0)
}

type MockIncidentRepository struct{ mock.Mock }

func (m *MockIncidentRepository) Add(ctx context.Context, i *incident.Incident) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIncidentRepository) Get(ctx context.Context, id kernel.UUID) (*incident.Incident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*incident.Incident), args.Error(1)
}

func (m *MockIncidentRepository) Resolve(ctx context.Context, i *incident.Incident) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIncidentRepository) FindDueIDs(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockIncidentRepository) MarkDeductionApplied(ctx context.Context, i *incident.Incident) (bool, error) {
	args := m.Called(ctx, i)
	return args.Bool(0), args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockNotificationLogRepository struct{ mock.Mock }

func (m *MockNotificationLogRepository) Record(ctx context.Context, orderID kernel.UUID, kind string, day time.Time) (bool, error) {
	args := m.Called(ctx, orderID, kind, day)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) StatusChanged(ctx context.Context, event order.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotifier) BalanceReminder(ctx context.Context, reminder ports.BalanceReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

// MockUoW records transaction calls; repository getters hand out the
// mocks wired into it.
type MockUoW struct {
	mock.Mock

	orders        *MockOrderRepository
	candidates    *MockCandidateRepository
	reports       *MockClosingReportRepository
	settlements   *MockSettlementRepository
	payouts       *MockPayoutRepository
	changes       *MockSettingChangeRepository
	settings      *MockSettingRepository
	incidents     *MockIncidentRepository
	refunds       *MockRefundRepository
	notifications *MockNotificationLogRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:        new(MockOrderRepository),
		candidates:    new(MockCandidateRepository),
		reports:       new(MockClosingReportRepository),
		settlements:   new(MockSettlementRepository),
		payouts:       new(MockPayoutRepository),
		changes:       new(MockSettingChangeRepository),
		settings:      new(MockSettingRepository),
		incidents:     new(MockIncidentRepository),
		refunds:       new(MockRefundRepository),
		notifications: new(MockNotificationLogRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository                 { return m.orders }
func (m *MockUoW) CandidateRepository() ports.CandidateRepository         { return m.candidates }
func (m *MockUoW) ClosingReportRepository() ports.ClosingReportRepository { return m.reports }
func (m *MockUoW) SettlementRepository() ports.SettlementRepository       { return m.settlements }
func (m *MockUoW) PayoutRepository() ports.PayoutRepository               { return m.payouts }
func (m *MockUoW) SettingChangeRepository() ports.SettingChangeRepository { return m.changes }
func (m *MockUoW) SettingRepository() ports.SettingRepository             { return m.settings }
func (m *MockUoW) IncidentRepository() ports.IncidentRepository           { return m.incidents }
func (m *MockUoW) RefundRepository() ports.RefundRepository               { return m.refunds }

func (m *MockUoW) NotificationLogRepository() ports.NotificationLogRepository {
	return m.notifications
}

// expectTx expects one transaction that commits with commitErr. Rollback
// always follows from the handler's deferred call.
func (m *MockUoW) expectTx(ctx context.Context, commitErr error) {
	m.On("Begin", ctx).Return(nil)
	if commitErr != errNoCommit {
		m.On("Commit", ctx).Return(commitErr)
	}
	m.On("Rollback", ctx).Return(nil)
}

// MockUoWFactory hands out the same unit of work for every Create call.
type MockUoWFactory[T any] struct{ mock.Mock }

func (m *MockUoWFactory[T]) Create() T {
	args := m.Called()
	return args.Get(0).(T)
}

func factoryFor[T any](uow T) *MockUoWFactory[T] {
	f := new(MockUoWFactory[T])
	f.On("Create").Return(uow)
	return f
}
