package commands_test

import (
	"testing"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyCandidateCommandHandler_Handle(t *testing.T) {
	newCmd := func(t *testing.T, orderID, helperID kernel.UUID) commands.ApplyCandidateCommand {
		t.Helper()
		cmd, err := commands.NewApplyCandidateCommand(kernel.NewUUID(), orderID, helperID, actorFor(t, helperID, kernel.RoleHelper))
		require.NoError(t, err)
		return cmd
	}

	t.Run("third application fits", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Open)
		helperID := kernel.NewUUID()
		cmd := newCmd(t, o.ID(), helperID)

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		mock.InOrder(
			uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			uow.candidates.On("CountActive", ctx, o.ID()).Return(2, nil).Once(),
			uow.candidates.On("ListByOrder", ctx, o.ID()).Return([]*candidate.Candidate{
				candidateIn(t, o.ID(), kernel.NewUUID(), candidate.StatusApplied),
				candidateIn(t, o.ID(), kernel.NewUUID(), candidate.StatusApplied),
			}, nil).Once(),
			uow.candidates.On("Add", ctx, mock.MatchedBy(func(c *candidate.Candidate) bool {
				return c.ID() == cmd.CandidateID() && c.HelperID() == helperID && c.Status() == candidate.StatusApplied
			})).Return(nil).Once(),
		)

		err := commands.NewApplyCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		uow.AssertExpectations(t)
		uow.candidates.AssertExpectations(t)
	})

	t.Run("fourth application hits the cap", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Open)
		cmd := newCmd(t, o.ID(), kernel.NewUUID())

		uow := newMockUoW()
		uow.expectTx(ctx, errNoCommit)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("CountActive", ctx, o.ID()).Return(candidate.MaxActive, nil).Once()

		err := commands.NewApplyCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		assert.ErrorIs(t, err, candidate.ErrCapReached)
		uow.candidates.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("same helper twice", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Open)
		helperID := kernel.NewUUID()
		cmd := newCmd(t, o.ID(), helperID)

		uow := newMockUoW()
		uow.expectTx(ctx, errNoCommit)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("CountActive", ctx, o.ID()).Return(1, nil).Once()
		uow.candidates.On("ListByOrder", ctx, o.ID()).Return([]*candidate.Candidate{
			candidateIn(t, o.ID(), helperID, candidate.StatusApplied),
		}, nil).Once()

		err := commands.NewApplyCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		assert.ErrorIs(t, err, candidate.ErrAlreadyApplied)
	})

	t.Run("order not open", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Scheduled)
		cmd := newCmd(t, o.ID(), kernel.NewUUID())

		uow := newMockUoW()
		uow.expectTx(ctx, errNoCommit)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()

		err := commands.NewApplyCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		assert.ErrorIs(t, err, commands.ErrOrderNotOpen)
	})

	t.Run("helper cannot apply for someone else", func(t *testing.T) {
		cmd, err := commands.NewApplyCandidateCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			actorFor(t, kernel.NewUUID(), kernel.RoleHelper))
		require.NoError(t, err)

		err = commands.NewApplyCandidateCommandHandler(new(MockUoWFactory[commands.CandidateUoW])).Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestSelectCandidateCommandHandler_Handle(t *testing.T) {
	t.Run("filling the last slot schedules the order and rejects the rest", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Open)
		chosen := candidateIn(t, o.ID(), kernel.NewUUID(), candidate.StatusApplied)
		sibling := candidateIn(t, o.ID(), kernel.NewUUID(), candidate.StatusApplied)
		cmd, err := commands.NewSelectCandidateCommand(o.ID(), chosen.ID(), actorFor(t, o.RequesterID(), kernel.RoleRequester))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("Get", ctx, chosen.ID()).Return(chosen, nil).Once()
		uow.candidates.On("Update", ctx, chosen).Return(nil).Once()
		uow.candidates.On("ListByOrder", ctx, o.ID()).Return([]*candidate.Candidate{chosen, sibling}, nil).Once()
		uow.candidates.On("Update", ctx, sibling).Return(nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()

		err = commands.NewSelectCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Scheduled, o.Status())
		require.NotNil(t, o.MatchedHelperID())
		assert.Equal(t, chosen.HelperID(), *o.MatchedHelperID())
		assert.Equal(t, candidate.StatusSelected, chosen.Status())
		assert.Equal(t, candidate.StatusRejected, sibling.Status())
		uow.candidates.AssertExpectations(t)
	})

	t.Run("open slots keep the order open", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Open, func(st *order.State) { st.MaxHelpers = 2 })
		chosen := candidateIn(t, o.ID(), kernel.NewUUID(), candidate.StatusApplied)
		cmd, err := commands.NewSelectCandidateCommand(o.ID(), chosen.ID(), admin(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("Get", ctx, chosen.ID()).Return(chosen, nil).Once()
		uow.candidates.On("Update", ctx, chosen).Return(nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()

		err = commands.NewSelectCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Open, o.Status())
		assert.Equal(t, 1, o.CurrentHelpers())
		uow.candidates.AssertNotCalled(t, "ListByOrder", mock.Anything, mock.Anything)
	})

	t.Run("candidate of another order", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Open)
		foreign := candidateIn(t, kernel.NewUUID(), kernel.NewUUID(), candidate.StatusApplied)
		cmd, err := commands.NewSelectCandidateCommand(o.ID(), foreign.ID(), admin(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx, errNoCommit)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("Get", ctx, foreign.ID()).Return(foreign, nil).Once()

		err = commands.NewSelectCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestRemoveCandidateCommandHandler_Handle(t *testing.T) {
	t.Run("removing the only selected helper reopens the order", func(t *testing.T) {
		ctx := t.Context()
		helperID := kernel.NewUUID()
		o := orderIn(t, order.Scheduled, withHelper(helperID))
		selected := candidateIn(t, o.ID(), helperID, candidate.StatusSelected)
		cmd, err := commands.NewRemoveCandidateCommand(o.ID(), helperID, actorFor(t, helperID, kernel.RoleHelper))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("ListByOrder", ctx, o.ID()).Return([]*candidate.Candidate{selected}, nil).Once()
		uow.candidates.On("Update", ctx, selected).Return(nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()

		err = commands.NewRemoveCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, candidate.StatusRejected, selected.Status())
		assert.Equal(t, order.Open, o.Status())
		assert.Nil(t, o.MatchedHelperID())
		assert.Equal(t, 0, o.CurrentHelpers())
	})

	t.Run("removing an applied helper leaves the order alone", func(t *testing.T) {
		ctx := t.Context()
		helperID := kernel.NewUUID()
		o := orderIn(t, order.Open)
		applied := candidateIn(t, o.ID(), helperID, candidate.StatusApplied)
		cmd, err := commands.NewRemoveCandidateCommand(o.ID(), helperID, actorFor(t, o.RequesterID(), kernel.RoleRequester))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.candidates.On("ListByOrder", ctx, o.ID()).Return([]*candidate.Candidate{applied}, nil).Once()
		uow.candidates.On("Update", ctx, applied).Return(nil).Once()

		err = commands.NewRemoveCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Open, o.Status())
		uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("order already in progress", func(t *testing.T) {
		ctx := t.Context()
		helperID := kernel.NewUUID()
		o := orderIn(t, order.InProgress, withHelper(helperID))
		cmd, err := commands.NewRemoveCandidateCommand(o.ID(), helperID, actorFor(t, helperID, kernel.RoleHelper))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx, errNoCommit)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()

		err = commands.NewRemoveCandidateCommandHandler(factoryFor[commands.CandidateUoW](uow)).Handle(ctx, cmd)

		assert.ErrorIs(t, err, commands.ErrOrderNotOpen)
	})
}
