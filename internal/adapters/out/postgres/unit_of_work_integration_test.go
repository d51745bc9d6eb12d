package postgres_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	postgres_adapter "helperhub/internal/adapters/out/postgres"
	"helperhub/internal/adapters/out/postgres/pgtest"
	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/incident"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var (
	day     = time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)
	workDay = time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []order.StatusEvent
}

func (n *recordingNotifier) StatusChanged(_ context.Context, e order.StatusEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *recordingNotifier) BalanceReminder(context.Context, ports.BalanceReminder) error {
	return nil
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// UnitOfWorkIntegrationTestSuite runs the repositories against a real
// PostgreSQL through the unit of work.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	notifier  *recordingNotifier
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, db, err := pgtest.Start(ctx)
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	// Migrate is idempotent.
	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.notifier = &recordingNotifier{}
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, suite.notifier, nil)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE " + strings.Join(postgres_adapter.Tables(), ", ")).Error
	suite.Require().NoError(err)
	suite.notifier.reset()
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), 10000, 12, workDay, 2, 39600, day)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) addOrder(o *order.Order) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrder_RoundTripAndEvents() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.addOrder(o)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.ConfirmDeposit(kernel.SystemActor("payments"), day))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Empty(suite.notifier.events, "nothing is dispatched before commit")
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Open, stored.Status())
	suite.Equal(order.PaymentDepositPaid, stored.PaymentStatus())
	suite.Equal(1, stored.Version())
	suite.Equal(workDay, stored.ScheduledDate())

	suite.Require().Len(suite.notifier.events, 1)
	suite.Equal(order.AwaitingDeposit, suite.notifier.events[0].Previous)
	suite.Equal(order.Open, suite.notifier.events[0].New)

	var count int64
	suite.Require().NoError(suite.db.Table("order_status_events").Where("order_id = ?", o.ID().Bytes()).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrder_RollbackDropsEvents() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.addOrder(o)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Cancel("changed plans", kernel.SystemActor("test"), day))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.AwaitingDeposit, stored.Status())
	suite.Empty(suite.notifier.events)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrder_StaleVersionConflicts() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.addOrder(o)

	repo := suite.factory.Create().OrderRepository()
	first, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.ConfirmDeposit(kernel.SystemActor("payments"), day))
	suite.Require().NoError(repo.Update(ctx, first))

	suite.Require().NoError(second.Cancel("late", kernel.SystemActor("test"), day))
	err = repo.Update(ctx, second)
	suite.ErrorIs(err, errs.ErrConcurrencyConflict)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrder_GetMissing() {
	_, err := suite.factory.Create().OrderRepository().Get(context.Background(), kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrder_FindIDs() {
	ctx := context.Background()
	open := suite.newOrder()
	suite.Require().NoError(open.ConfirmDeposit(kernel.SystemActor("payments"), day))
	suite.addOrder(open)
	unpaid := suite.newOrder()
	suite.addOrder(unpaid)

	repo := suite.factory.Create().OrderRepository()
	before := day.AddDate(0, 0, 6)

	ids, err := repo.FindIDs(ctx, ports.OrderFilter{Status: order.Open, ScheduledBefore: &before, Unassigned: true, VisibleOnly: true})
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{open.ID()}, ids)

	early := day
	ids, err = repo.FindIDs(ctx, ports.OrderFilter{ScheduledBefore: &early})
	suite.Require().NoError(err)
	suite.Empty(ids)

	ids, err = repo.FindIDs(ctx, ports.OrderFilter{Limit: 1})
	suite.Require().NoError(err)
	suite.Len(ids, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCandidate_OneActivePerHelper() {
	ctx := context.Background()
	orderID, helperID := kernel.NewUUID(), kernel.NewUUID()
	repo := suite.factory.Create().CandidateRepository()

	first, err := candidate.NewCandidate(kernel.NewUUID(), orderID, helperID, day)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, first))

	dup, err := candidate.NewCandidate(kernel.NewUUID(), orderID, helperID, day)
	suite.Require().NoError(err)
	suite.ErrorIs(repo.Add(ctx, dup), errs.ErrConcurrencyConflict)

	suite.Require().NoError(first.Reject(day))
	suite.Require().NoError(repo.Update(ctx, first))
	suite.Require().NoError(repo.Add(ctx, dup), "a rejected application frees the slot")

	count, err := repo.CountActive(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(1, count)

	all, err := repo.ListByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *UnitOfWorkIntegrationTestSuite) newSettlement() *settlement.Settlement {
	s, err := settlement.NewSettlement(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), pricing.Snapshot{
		Supply: 120000, VAT: 12000, Gross: 132000, Deposit: 39600, Balance: 92400,
		Commission: 6600, Net: 125400,
	}, kernel.SystemActor("test"), day)
	suite.Require().NoError(err)
	return s
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSettlement_AuditTrail() {
	ctx := context.Background()
	manager, err := kernel.NewActor("finance-1", kernel.RoleAdmin, kernel.PermissionManageSettlement)
	suite.Require().NoError(err)

	s := suite.newSettlement()
	repo := suite.factory.Create().SettlementRepository()
	suite.Require().NoError(repo.Add(ctx, s))

	suite.Require().NoError(s.EditAmount(settlement.FieldDeduction, 5000, "damaged box", manager, day))
	suite.Require().NoError(s.Lock("month end", manager, day))
	suite.Require().NoError(repo.Update(ctx, s))

	stored, err := repo.GetByOrderAndHelper(ctx, s.OrderID(), s.HelperID())
	suite.Require().NoError(err)
	suite.Equal(settlement.StatusLocked, stored.Status())
	suite.Equal(int64(120400), stored.Net())
	suite.Equal(int64(132000), stored.Snapshot().Gross)

	var entries []struct {
		Kind          string
		PreviousValue *int64
	}
	suite.Require().NoError(suite.db.Table("settlement_audit_entries").
		Where("settlement_id = ?", s.ID().Bytes()).
		Order("created_at, kind").
		Find(&entries).Error)
	suite.Len(entries, 3)

	stale, err := repo.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(stale.Unlock("reopen", manager, day))
	suite.Require().NoError(repo.Update(ctx, stale))
	suite.ErrorIs(repo.Update(ctx, s), errs.ErrConcurrencyConflict)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPayout_OneActivePerSettlement() {
	ctx := context.Background()
	bank, err := payout.NewBankAccount("004", "123-456-7890", "Kim Helper")
	suite.Require().NoError(err)
	s := suite.newSettlement()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.PayoutRepository()
	first, err := payout.NewPayout(kernel.NewUUID(), s.ID(), s.OrderID(), s.HelperID(), 125400, bank, kernel.SystemActor("test"), day)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, first))
	suite.Require().NoError(uow.Commit(ctx))

	repo = suite.factory.Create().PayoutRepository()
	active, err := repo.HasActive(ctx, s.ID())
	suite.Require().NoError(err)
	suite.True(active)

	second, err := payout.NewPayout(kernel.NewUUID(), s.ID(), s.OrderID(), s.HelperID(), 125400, bank, kernel.SystemActor("test"), day)
	suite.Require().NoError(err)
	suite.ErrorIs(repo.Add(ctx, second), errs.ErrConcurrencyConflict)

	suite.Require().NoError(first.MarkSent(kernel.SystemActor("bank"), day))
	suite.Require().NoError(first.MarkFailed("E01", "account closed", kernel.SystemActor("bank"), day))
	suite.Require().NoError(repo.Update(ctx, first))

	active, err = repo.HasActive(ctx, s.ID())
	suite.Require().NoError(err)
	suite.False(active)

	stored, err := repo.Get(ctx, first.ID())
	suite.Require().NoError(err)
	suite.Equal(payout.StatusFailed, stored.Status())
	suite.Equal("E01", stored.FailureCode())
	suite.Equal(bank, stored.Bank())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSettings_PutGetDelete() {
	ctx := context.Background()
	repo := suite.factory.Create().SettingRepository()

	_, ok, err := repo.Get(ctx, policy.CommissionRate, policy.GlobalEntity)
	suite.Require().NoError(err)
	suite.False(ok)

	suite.Require().NoError(repo.Put(ctx, policy.CommissionRate, policy.GlobalEntity, "0.05", day))
	suite.Require().NoError(repo.Put(ctx, policy.CommissionRate, policy.GlobalEntity, "0.08", day))

	value, ok, err := repo.Get(ctx, policy.CommissionRate, policy.GlobalEntity)
	suite.Require().NoError(err)
	suite.True(ok)
	suite.Equal("0.08", value)

	suite.Require().NoError(repo.Delete(ctx, policy.CommissionRate, policy.GlobalEntity))
	_, ok, err = repo.Get(ctx, policy.CommissionRate, policy.GlobalEntity)
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSettingChange_StatusGuard() {
	ctx := context.Background()
	admin, err := kernel.NewActor("ops-1", kernel.RoleAdmin, kernel.PermissionManagePolicy)
	suite.Require().NoError(err)
	later := day.Add(time.Hour)

	c, err := policy.NewChange(kernel.NewUUID(), policy.CommissionRate, policy.GlobalEntity, "0.05", "0.08", &later, "q2 pricing", admin, day)
	suite.Require().NoError(err)
	repo := suite.factory.Create().SettingChangeRepository()
	suite.Require().NoError(repo.Add(ctx, c))

	due, err := repo.FindDueIDs(ctx, day)
	suite.Require().NoError(err)
	suite.Empty(due)
	due, err = repo.FindDueIDs(ctx, later)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{c.ID()}, due)

	suite.Require().NoError(c.Activate("0.05", later))
	suite.Require().NoError(repo.Update(ctx, c, policy.StatusPending))
	suite.ErrorIs(repo.Update(ctx, c, policy.StatusPending), errs.ErrConcurrencyConflict)

	stored, err := repo.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(policy.StatusActive, stored.Status())
	suite.Require().NotNil(stored.AppliedAt())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIncident_DeductionFlipsOnce() {
	ctx := context.Background()
	requester, err := kernel.NewActor(kernel.NewUUID().String(), kernel.RoleRequester)
	suite.Require().NoError(err)
	i, err := incident.NewIncident(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 3000, "broken vase", day.Add(time.Hour), requester, day)
	suite.Require().NoError(err)

	repo := suite.factory.Create().IncidentRepository()
	suite.Require().NoError(repo.Add(ctx, i))

	due, err := repo.FindDueIDs(ctx, day.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{i.ID()}, due)

	first, err := repo.Get(ctx, i.ID())
	suite.Require().NoError(err)
	second, err := repo.Get(ctx, i.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.MarkDeductionApplied(day.Add(2 * time.Hour)))
	flipped, err := repo.MarkDeductionApplied(ctx, first)
	suite.Require().NoError(err)
	suite.True(flipped)

	suite.Require().NoError(second.MarkDeductionApplied(day.Add(2 * time.Hour)))
	flipped, err = repo.MarkDeductionApplied(ctx, second)
	suite.Require().NoError(err)
	suite.False(flipped)

	due, err = repo.FindDueIDs(ctx, day.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Empty(due)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestNotificationLog_OncePerDay() {
	ctx := context.Background()
	repo := suite.factory.Create().NotificationLogRepository()
	orderID := kernel.NewUUID()

	fresh, err := repo.Record(ctx, orderID, ports.NotificationBalanceReminder, day)
	suite.Require().NoError(err)
	suite.True(fresh)

	fresh, err = repo.Record(ctx, orderID, ports.NotificationBalanceReminder, day.Add(6*time.Hour))
	suite.Require().NoError(err)
	suite.False(fresh)

	fresh, err = repo.Record(ctx, orderID, ports.NotificationBalanceReminder, day.AddDate(0, 0, 1))
	suite.Require().NoError(err)
	suite.True(fresh)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
