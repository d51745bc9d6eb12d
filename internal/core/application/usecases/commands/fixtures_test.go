package commands_test

import (
	"errors"
	"testing"
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/core/domain/model/settlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// errNoCommit marks a transaction expected to end without Commit.
var errNoCommit = errors.New("no commit expected")

var (
	scheduled = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	created   = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

func admin(t *testing.T, perms ...kernel.Permission) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor("admin-1", kernel.RoleAdmin, perms...)
	require.NoError(t, err)
	return a
}

func actorFor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id.String(), role)
	require.NoError(t, err)
	return a
}

func defaultRates(t *testing.T) pricing.Rates {
	t.Helper()
	r, err := pricing.NewRates(decimal.RequireFromString("0.05"), decimal.RequireFromString("0.30"))
	require.NoError(t, err)
	return r
}

// orderIn builds an order already in status. edit adjusts the state first.
func orderIn(t *testing.T, status order.Status, edit ...func(*order.State)) *order.Order {
	t.Helper()
	st := order.State{
		ID:            kernel.NewUUID(),
		RequesterID:   kernel.NewUUID(),
		UnitPrice:     1200,
		Quantity:      100,
		ScheduledDate: scheduled,
		MaxHelpers:    1,
		PaymentStatus: order.PaymentDepositPaid,
		DepositAmount: 39600,
		CreatedAt:     created,
		Status:        status,
		Version:       1,
	}
	for _, e := range edit {
		e(&st)
	}
	o, err := order.RestoreOrder(st)
	require.NoError(t, err)
	return o
}

func withHelper(helperID kernel.UUID) func(*order.State) {
	return func(st *order.State) {
		id := helperID
		st.MatchedHelperID = &id
		st.CurrentHelpers = 1
	}
}

func candidateIn(t *testing.T, orderID, helperID kernel.UUID, status candidate.Status) *candidate.Candidate {
	t.Helper()
	c, err := candidate.RestoreCandidate(kernel.NewUUID(), orderID, helperID, status, created, created)
	require.NoError(t, err)
	return c
}

func snapshot() pricing.Snapshot {
	return pricing.Snapshot{
		Supply: 120000, VAT: 12000, Gross: 132000, Deposit: 39600, Balance: 92400,
		Commission: 6600, Net: 125400,
	}
}

func settlementIn(t *testing.T, orderID, helperID kernel.UUID, status settlement.Status) *settlement.Settlement {
	t.Helper()
	s, err := settlement.NewSettlement(kernel.NewUUID(), orderID, helperID, snapshot(), kernel.SystemActor("test"), created)
	require.NoError(t, err)
	st := s.State()
	st.Status = status
	restored, err := settlement.RestoreSettlement(st)
	require.NoError(t, err)
	return restored
}
