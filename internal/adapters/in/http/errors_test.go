package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	httpadapter "helperhub/internal/adapters/in/http"
	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/core/domain/model/policy"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{errs.NewValueIsRequiredError("reason"), http.StatusBadRequest},
		{errs.NewValueIsInvalidError("field"), http.StatusBadRequest},
		{errs.NewValueIsOutOfRangeError("amount", -1, 0, 10), http.StatusBadRequest},
		{errs.NewForbiddenError("lock settlement", "helper:h-1"), http.StatusForbidden},
		{errs.NewObjectNotFoundError("order", "o-1"), http.StatusNotFound},
		{errs.NewConcurrencyConflictError("order", "o-1"), http.StatusConflict},
		{candidate.ErrCapReached, http.StatusConflict},
		{fmt.Errorf("request payout: %w", payout.ErrActivePayoutExists), http.StatusConflict},
		{&order.InvalidTransitionError{From: order.Open, To: order.Closed}, http.StatusUnprocessableEntity},
		{settlement.ErrSettlementLocked, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: order o-1 is SCHEDULED", commands.ErrOrderNotOpen), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: order o-1 is FINAL_AMOUNT_CONFIRMED", commands.ErrBalanceNotPaid), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: c-2 is in force", policy.ErrSuperseded), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, httpadapter.StatusOf(tt.err))
		})
	}
}

func TestParseToken(t *testing.T) {
	t.Run("valid token yields the actor", func(t *testing.T) {
		claims, err := httpadapter.ParseToken(
			token(t, "finance-1", kernel.RoleAdmin, kernel.PermissionManageSettlement), secret)
		require.NoError(t, err)

		actor, err := claims.Actor()
		require.NoError(t, err)
		assert.Equal(t, "finance-1", actor.ID())
		assert.Equal(t, kernel.RoleAdmin, actor.Role())
		assert.True(t, actor.Can(kernel.PermissionManageSettlement))
		assert.False(t, actor.CanOverride())
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := httpadapter.ParseToken(token(t, "u-1", kernel.RoleHelper), []byte("other"))
		assert.ErrorIs(t, err, httpadapter.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpadapter.Claims{
			Role: string(kernel.RoleHelper),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}).SignedString(secret)
		require.NoError(t, err)

		_, err = httpadapter.ParseToken(signed, secret)
		assert.ErrorIs(t, err, httpadapter.ErrInvalidToken)
	})

	t.Run("system role cannot be claimed", func(t *testing.T) {
		claims, err := httpadapter.ParseToken(token(t, "cron", kernel.RoleSystem), secret)
		require.NoError(t, err)

		_, err = claims.Actor()
		assert.ErrorIs(t, err, httpadapter.ErrUnknownRole)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := httpadapter.ParseToken("", secret)
		assert.ErrorIs(t, err, httpadapter.ErrEmptyToken)
		_, err = httpadapter.ParseToken("x", nil)
		assert.ErrorIs(t, err, httpadapter.ErrEmptySecret)
	})
}
