package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "helperhub/internal/adapters/in/http"
	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func token(t *testing.T, subject string, role kernel.Role, perms ...kernel.Permission) string {
	t.Helper()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	claims := httpadapter.Claims{
		Role:        string(role),
		Permissions: names,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

// MockOrderRepository implements only what the order commands touch.
type MockOrderRepository struct {
	ports.OrderRepository
	mock.Mock
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

type fakeOrderUoW struct {
	commands.OrderUoW
	orders    *MockOrderRepository
	committed bool
}

func (u *fakeOrderUoW) Begin(context.Context) error    { return nil }
func (u *fakeOrderUoW) Rollback(context.Context) error { return nil }
func (u *fakeOrderUoW) Commit(context.Context) error {
	u.committed = true
	return nil
}
func (u *fakeOrderUoW) OrderRepository() ports.OrderRepository { return u.orders }

type orderUoWFactory struct{ uow *fakeOrderUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

func newEcho(handlers httpadapter.Handlers) *echo.Echo {
	e := echo.New()
	httpadapter.NewServer(handlers, secret).RegisterRoutes(e)
	return e
}

func serve(e *echo.Echo, method, target, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newAwaitingDepositOrder(t *testing.T, requesterID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), requesterID, 10000, 12,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 1, 39600, time.Now().UTC())
	require.NoError(t, err)
	return o
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEcho(httpadapter.Handlers{})

	rec := serve(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = serve(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RequiresBearerToken(t *testing.T) {
	e := newEcho(httpadapter.Handlers{})
	orderID := kernel.NewUUID().String()

	rec := serve(e, http.MethodGet, "/api/v1/orders/"+orderID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/api/v1/orders/"+orderID, "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_RejectsMalformedInput(t *testing.T) {
	e := newEcho(httpadapter.Handlers{})
	requester := kernel.NewUUID().String()
	bearer := token(t, requester, kernel.RoleRequester)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"order id is not a uuid", http.MethodPost, "/api/v1/orders/42/deposit", ""},
		{"scheduled date is not a date", http.MethodPost, "/api/v1/orders", `{"unit_price":1000,"quantity":1,"scheduled_date":"tomorrow"}`},
		{"unknown target status", http.MethodPost, "/api/v1/orders/" + kernel.NewUUID().String() + "/transitions", `{"target":"DELIVERED"}`},
		{"unknown payout outcome", http.MethodPost, "/api/v1/payouts/" + kernel.NewUUID().String() + "/callbacks", `{"outcome":"maybe"}`},
		{"unknown settlement action", http.MethodPost, "/api/v1/settlements/" + kernel.NewUUID().String() + "/approve", `{"reason":"x"}`},
		{"bank account missing", http.MethodPost, "/api/v1/settlements/" + kernel.NewUUID().String() + "/payouts", `{"bank_code":"004"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.target, bearer, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			var body httpadapter.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusBadRequest, body.Code)
		})
	}
}

func TestSettlementTotals_Authorization(t *testing.T) {
	e := newEcho(httpadapter.Handlers{})

	rec := serve(e, http.MethodGet, "/api/v1/settlements/totals?from=2025-03-01&to=2025-04-01",
		token(t, kernel.NewUUID().String(), kernel.RoleRequester), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, http.MethodGet, "/api/v1/settlements/totals?to=2025-04-01",
		token(t, "finance-1", kernel.RoleAdmin, kernel.PermissionManageSettlement), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmDeposit(t *testing.T) {
	requesterID := kernel.NewUUID()

	t.Run("requester confirms own deposit", func(t *testing.T) {
		o := newAwaitingDepositOrder(t, requesterID)
		repo := &MockOrderRepository{}
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil)
		repo.On("Update", mock.Anything, o).Return(nil)
		uow := &fakeOrderUoW{orders: repo}
		e := newEcho(httpadapter.Handlers{
			ConfirmDeposit: commands.NewConfirmDepositCommandHandler(orderUoWFactory{uow}),
		})

		rec := serve(e, http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/deposit",
			token(t, requesterID.String(), kernel.RoleRequester), "")

		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		assert.Equal(t, order.Open, o.Status())
		assert.True(t, uow.committed)
		repo.AssertExpectations(t)
	})

	t.Run("other requester is forbidden", func(t *testing.T) {
		o := newAwaitingDepositOrder(t, requesterID)
		repo := &MockOrderRepository{}
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil)
		uow := &fakeOrderUoW{orders: repo}
		e := newEcho(httpadapter.Handlers{
			ConfirmDeposit: commands.NewConfirmDepositCommandHandler(orderUoWFactory{uow}),
		})

		rec := serve(e, http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/deposit",
			token(t, kernel.NewUUID().String(), kernel.RoleRequester), "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, uow.committed)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		orderID := kernel.NewUUID()
		repo := &MockOrderRepository{}
		repo.On("Get", mock.Anything, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID))
		e := newEcho(httpadapter.Handlers{
			ConfirmDeposit: commands.NewConfirmDepositCommandHandler(orderUoWFactory{&fakeOrderUoW{orders: repo}}),
		})

		rec := serve(e, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/deposit",
			token(t, requesterID.String(), kernel.RoleRequester), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTransitionOrder_UndeclaredEdge(t *testing.T) {
	requesterID := kernel.NewUUID()
	o := newAwaitingDepositOrder(t, requesterID)
	repo := &MockOrderRepository{}
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil)
	e := newEcho(httpadapter.Handlers{
		TransitionOrder: commands.NewTransitionOrderCommandHandler(orderUoWFactory{&fakeOrderUoW{orders: repo}}),
	})

	rec := serve(e, http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/transitions",
		token(t, "ops-1", kernel.RoleAdmin), `{"target":"CLOSED","reason":"skip ahead"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, order.AwaitingDeposit, o.Status())
}
