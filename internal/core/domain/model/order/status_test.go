package order_test

import (
	"testing"

	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   order.Status
		expected string
	}{
		{order.AwaitingDeposit, "AWAITING_DEPOSIT"},
		{order.Open, "OPEN"},
		{order.Scheduled, "SCHEDULED"},
		{order.InProgress, "IN_PROGRESS"},
		{order.ClosingSubmitted, "CLOSING_SUBMITTED"},
		{order.FinalAmountConfirmed, "FINAL_AMOUNT_CONFIRMED"},
		{order.BalancePaid, "BALANCE_PAID"},
		{order.SettlementPaid, "SETTLEMENT_PAID"},
		{order.Closed, "CLOSED"},
		{order.Cancelled, "CANCELLED"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())

			parsed, err := order.ParseStatus(tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.status, parsed)
		})
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	_, err := order.ParseStatus("DELIVERED")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range order.AllStatuses() {
		assert.NoError(t, s.Validate(), s.String())
	}

	assert.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	assert.ErrorIs(t, order.Status(42).Validate(), errs.ErrValueIsInvalid)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("declared edges", func(t *testing.T) {
		edges := [][2]order.Status{
			{order.AwaitingDeposit, order.Open},
			{order.Open, order.Scheduled},
			{order.Scheduled, order.Open},
			{order.Scheduled, order.InProgress},
			{order.InProgress, order.ClosingSubmitted},
			{order.ClosingSubmitted, order.FinalAmountConfirmed},
			{order.ClosingSubmitted, order.InProgress},
			{order.FinalAmountConfirmed, order.BalancePaid},
			{order.BalancePaid, order.SettlementPaid},
			{order.SettlementPaid, order.Closed},
		}
		for _, e := range edges {
			assert.True(t, e[0].CanTransitionTo(e[1]), "%s -> %s", e[0], e[1])
		}
	})

	t.Run("every non-terminal status can be cancelled", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			if s.IsTerminal() {
				assert.False(t, s.CanTransitionTo(order.Cancelled), s.String())
				continue
			}
			assert.True(t, s.CanTransitionTo(order.Cancelled), s.String())
		}
	})

	t.Run("undeclared edges", func(t *testing.T) {
		assert.False(t, order.Open.CanTransitionTo(order.InProgress))
		assert.False(t, order.AwaitingDeposit.CanTransitionTo(order.Closed))
		assert.False(t, order.BalancePaid.CanTransitionTo(order.FinalAmountConfirmed))
	})

	t.Run("terminal statuses have no outgoing edges", func(t *testing.T) {
		for _, to := range order.AllStatuses() {
			assert.False(t, order.Closed.CanTransitionTo(to))
			assert.False(t, order.Cancelled.CanTransitionTo(to))
		}
	})
}

func TestStatus_Is(t *testing.T) {
	assert.True(t, order.Open.Is(order.Open, order.Scheduled))
	assert.False(t, order.InProgress.Is(order.Open, order.Scheduled))
	assert.False(t, order.Open.Is())
}
