package postgres_test

import (
	"context"
	"errors"
	"sync"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/closing"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/pricing"

	"github.com/shopspring/decimal"
)

type funcFactory[T any] func() T

func (f funcFactory[T]) Create() T { return f() }

func (suite *UnitOfWorkIntegrationTestSuite) candidateUoW() commands.CandidateUoWFactory {
	return funcFactory[commands.CandidateUoW](func() commands.CandidateUoW { return suite.factory.Create() })
}

func (suite *UnitOfWorkIntegrationTestSuite) closingUoW() commands.ClosingUoWFactory {
	return funcFactory[commands.ClosingUoW](func() commands.ClosingUoW { return suite.factory.Create() })
}

func (suite *UnitOfWorkIntegrationTestSuite) policyUoW() commands.PolicyUoWFactory {
	return funcFactory[commands.PolicyUoW](func() commands.PolicyUoW { return suite.factory.Create() })
}

func (suite *UnitOfWorkIntegrationTestSuite) actor(id string, role kernel.Role, perms ...kernel.Permission) kernel.Actor {
	a, err := kernel.NewActor(id, role, perms...)
	suite.Require().NoError(err)
	return a
}

func (suite *UnitOfWorkIntegrationTestSuite) TestApplyCandidate_ConcurrentApplicationsRespectCap() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.Require().NoError(o.ConfirmDeposit(kernel.SystemActor("payments"), day))
	suite.addOrder(o)

	handler := commands.NewApplyCandidateCommandHandler(suite.candidateUoW())

	const applicants = 6
	results := make([]error, applicants)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range applicants {
		helperID := kernel.NewUUID()
		cmd, err := commands.NewApplyCandidateCommand(kernel.NewUUID(), o.ID(), helperID,
			suite.actor(helperID.String(), kernel.RoleHelper))
		suite.Require().NoError(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = handler.Handle(ctx, cmd)
		}()
	}
	close(start)
	wg.Wait()

	var accepted, capped int
	for _, err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, candidate.ErrCapReached):
			capped++
		default:
			suite.Failf("unexpected apply error", "%v", err)
		}
	}
	suite.Equal(candidate.MaxActive, accepted)
	suite.Equal(applicants-candidate.MaxActive, capped)

	active, err := suite.factory.Create().CandidateRepository().CountActive(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(candidate.MaxActive, active)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestApprovedSnapshot_SurvivesRateChange() {
	ctx := context.Background()
	helperID := kernel.NewUUID()
	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		RequesterID:     kernel.NewUUID(),
		MatchedHelperID: &helperID,
		UnitPrice:       1200,
		Quantity:        100,
		ScheduledDate:   workDay,
		MaxHelpers:      1,
		CurrentHelpers:  1,
		PaymentStatus:   order.PaymentDepositPaid,
		DepositAmount:   39600,
		CreatedAt:       day,
		Status:          order.InProgress,
		Version:         1,
	})
	suite.Require().NoError(err)
	suite.addOrder(o)

	rates, err := pricing.NewRates(decimal.RequireFromString("0.05"), decimal.RequireFromString("0.30"))
	suite.Require().NoError(err)

	reportID := kernel.NewUUID()
	submit, err := commands.NewSubmitClosingReportCommand(reportID, o.ID(), helperID,
		closing.Counts{Delivered: 100}, nil, nil, suite.actor(helperID.String(), kernel.RoleHelper))
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewSubmitClosingReportCommandHandler(suite.closingUoW()).Handle(ctx, submit))

	settlementID := kernel.NewUUID()
	approve, err := commands.NewApproveClosingReportCommand(reportID, settlementID, nil,
		suite.actor("ops-1", kernel.RoleAdmin, kernel.PermissionReviewClosing))
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewApproveClosingReportCommandHandler(suite.closingUoW(), rates, 7).Handle(ctx, approve))

	uow := suite.factory.Create()
	before, err := uow.ClosingReportRepository().Get(ctx, reportID)
	suite.Require().NoError(err)
	settledBefore, err := uow.SettlementRepository().Get(ctx, settlementID)
	suite.Require().NoError(err)
	suite.Require().NotNil(before.Approval())
	suite.Equal(int64(6600), before.Approval().Commission)

	change, err := commands.NewChangeSettingCommand(kernel.NewUUID(), policy.CommissionRate, "", "0.08", nil,
		"new commission", suite.actor("ops-2", kernel.RoleAdmin, kernel.PermissionManagePolicy))
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewChangeSettingCommandHandler(suite.policyUoW(), commands.NewApplierRegistry()).Handle(ctx, change))

	uow = suite.factory.Create()
	after, err := uow.ClosingReportRepository().Get(ctx, reportID)
	suite.Require().NoError(err)
	settledAfter, err := uow.SettlementRepository().Get(ctx, settlementID)
	suite.Require().NoError(err)

	suite.Require().NotNil(after.Approval())
	suite.Equal(before.Approval().Gross, after.Approval().Gross)
	suite.Equal(before.Approval().Commission, after.Approval().Commission)
	suite.Equal(before.Approval().Net, after.Approval().Net)
	suite.True(before.Approval().CommissionRate.Equal(after.Approval().CommissionRate))
	suite.Equal(before.Submission(), after.Submission())
	suite.Equal(settledBefore.Gross(), settledAfter.Gross())
	suite.Equal(settledBefore.Commission(), settledAfter.Commission())
	suite.Equal(settledBefore.Net(), settledAfter.Net())
	suite.Equal(int64(125400), settledAfter.Net())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackSettingChange_OnlyLatestInForce() {
	ctx := context.Background()
	manager := suite.actor("ops-3", kernel.RoleAdmin, kernel.PermissionManagePolicy)
	appliers := commands.NewApplierRegistry()
	changeHandler := commands.NewChangeSettingCommandHandler(suite.policyUoW(), appliers)
	rollbackHandler := commands.NewRollbackSettingChangeCommandHandler(suite.policyUoW(), appliers)

	first, err := commands.NewChangeSettingCommand(kernel.NewUUID(), policy.CommissionRate, "", "0.08", nil, "raise", manager)
	suite.Require().NoError(err)
	suite.Require().NoError(changeHandler.Handle(ctx, first))
	second, err := commands.NewChangeSettingCommand(kernel.NewUUID(), policy.CommissionRate, "", "0.06", nil, "settle", manager)
	suite.Require().NoError(err)
	suite.Require().NoError(changeHandler.Handle(ctx, second))

	stale, err := commands.NewRollbackSettingChangeCommand(kernel.NewUUID(), first.ChangeID(), "undo raise", manager)
	suite.Require().NoError(err)
	suite.ErrorIs(rollbackHandler.Handle(ctx, stale), policy.ErrSuperseded)

	settings := suite.factory.Create().SettingRepository()
	value, ok, err := settings.Get(ctx, policy.CommissionRate, policy.GlobalEntity)
	suite.Require().NoError(err)
	suite.True(ok)
	suite.Equal("0.06", value)

	current, err := commands.NewRollbackSettingChangeCommand(kernel.NewUUID(), second.ChangeID(), "undo settle", manager)
	suite.Require().NoError(err)
	suite.Require().NoError(rollbackHandler.Handle(ctx, current))

	value, _, err = settings.Get(ctx, policy.CommissionRate, policy.GlobalEntity)
	suite.Require().NoError(err)
	suite.Equal("0.08", value)
}
