package guard_test

import (
	"errors"
	"sync"
	"testing"

	"helperhub/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("constructed_guard_validates_with_custom_error", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
	})

	t.Run("constructed_guard_validates_with_nil_error", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("settlement command not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

type payoutRequest struct {
	amount int64
	guard  guard.ConstructorGuard
}

var errPayoutRequestNotConstructed = errors.New("payoutRequest must be created via newPayoutRequest")

func newPayoutRequest(amount int64) (payoutRequest, error) {
	if amount <= 0 {
		return payoutRequest{}, errors.New("amount must be positive")
	}
	return payoutRequest{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

func (p payoutRequest) Validate() error {
	return p.guard.Validate(errPayoutRequestNotConstructed)
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	t.Run("constructor_built_value_is_valid", func(t *testing.T) {
		req, err := newPayoutRequest(125400)
		require.NoError(t, err)

		require.NoError(t, req.Validate())
	})

	t.Run("struct_literal_is_rejected", func(t *testing.T) {
		req := payoutRequest{amount: 125400}

		require.ErrorIs(t, req.Validate(), errPayoutRequestNotConstructed)
	})

	t.Run("copy_keeps_constructed_state", func(t *testing.T) {
		req, err := newPayoutRequest(1)
		require.NoError(t, err)
		copied := req

		require.NoError(t, copied.Validate())
	})
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(nil))
		}()
	}
	wg.Wait()
}
