package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"foodstore/internal/auth"
	"foodstore/internal/checkout"
	"foodstore/internal/domain/cashiers"
	"foodstore/internal/domain/orders"
	"foodstore/internal/domain/storage"
	"foodstore/internal/metrics"
	"foodstore/internal/orderapi"
	"foodstore/internal/ratelimiter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type ordersStoreMock struct {
	mu      sync.Mutex
	created []checkout.OrderRequest
	stored  map[int64]*orders.Order
	err     error
}

func (m *ordersStoreMock) Create(ctx context.Context, cashierID int64, req checkout.OrderRequest) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, req)
	if m.err != nil {
		return nil, m.err
	}

	o := orders.NewOrder(cashierID, "FOOD-TEST-0001", req)
	o.ID = int64(len(m.created))
	o.CreatedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if m.stored == nil {
		m.stored = map[int64]*orders.Order{}
	}
	m.stored[o.ID] = o
	return o, nil
}

func (m *ordersStoreMock) GetByID(ctx context.Context, cashierID, orderID int64) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.stored[orderID]
	if !ok || o.CashierID != cashierID {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

func (m *ordersStoreMock) ListByCashier(ctx context.Context, cashierID int64, limit, offset int) ([]orders.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []orders.Order
	for id := int64(1); id <= int64(len(m.created)); id++ {
		if o, ok := m.stored[id]; ok && o.CashierID == cashierID {
			all = append(all, *o)
		}
	}
	total := len(all)
	if offset >= total {
		return []orders.Order{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *ordersStoreMock) createdCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

type cashiersStoreMock struct {
	byID map[int64]*cashiers.Cashier
}

func (m *cashiersStoreMock) GetByID(ctx context.Context, id int64) (*cashiers.Cashier, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, cashiers.ErrNotFound
}

func (m *cashiersStoreMock) GetByUsername(ctx context.Context, username string) (*cashiers.Cashier, error) {
	for _, c := range m.byID {
		if c.Username == username {
			return c, nil
		}
	}
	return nil, cashiers.ErrNotFound
}

// --- helpers ---

type testApp struct {
	*application
	orders *ordersStoreMock
}

func newTestApplication(t *testing.T, rl ratelimiter.Config) *testApp {
	t.Helper()

	var pw cashiers.Password
	require.NoError(t, pw.Set("secret1"))

	ordersMock := &ordersStoreMock{}
	registry := prometheus.NewRegistry()

	app := &application{
		config: config{
			env: "test",
			auth: authConfig{
				basic: basicConfig{user: "admin", pass: "admin"},
			},
			rateLimiter: rl,
		},
		store: &storage.Container{
			Orders: ordersMock,
			Cashiers: &cashiersStoreMock{byID: map[int64]*cashiers.Cashier{
				1: {ID: 1, Username: "till1", Name: "Till One", Role: "cashier", Password: pw},
				2: {ID: 2, Username: "till2", Name: "Till Two", Role: "cashier", Password: pw},
			}},
		},
		logger:        zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator("access", "refresh", "foodstore", "foodstore", time.Hour, 2*time.Hour),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(rl.RequestsPerTimeFrame, rl.TimeFrame),
		metrics:       metrics.NewOrders(registry),
		registry:      registry,
	}

	return &testApp{application: app, orders: ordersMock}
}

func (a *testApp) token(t *testing.T, cashierID int64) string {
	t.Helper()
	access, _, err := a.authenticator.GenerateTokens(cashierID, "cashier")
	require.NoError(t, err)
	return access
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.mount().ServeHTTP(rec, req)
	return rec
}

func aliceOrder(cash int64) checkout.OrderRequest {
	cart := checkout.CartSnapshot{
		LineItems: []checkout.LineItem{{Name: "Fried Rice", Quantity: 2, Price: decimal.NewFromInt(25000)}},
		SubTotal:  decimal.NewFromInt(50000),
		Tax:       decimal.NewFromInt(5000),
	}
	return checkout.NewOrderRequest(checkout.PaymentForm{Name: "Alice", Cash: decimal.NewFromInt(cash)}, cart)
}

var noRateLimit = ratelimiter.Config{RequestsPerTimeFrame: 100, TimeFrame: time.Second}

// --- order tests ---

func TestCreateOrder_Success(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	rec := app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), aliceOrder(60000))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data orders.Order `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "FOOD-TEST-0001", resp.Data.OrderNumber)
	assert.Equal(t, "Alice", resp.Data.Name)
	assert.Equal(t, "55000", resp.Data.Total.String())
	assert.Equal(t, "10000", resp.Data.Change.String())
	require.Len(t, resp.Data.Details, 1)
	assert.Equal(t, "Fried Rice", resp.Data.Details[0].Name)

	assert.Equal(t, 1, app.orders.createdCount())
	assert.Equal(t, "Alice", app.orders.created[0].Name)
}

func TestCreateOrder_InsufficientCash(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	rec := app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), aliceOrder(50000))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Message string                    `json:"message"`
		Errors  checkout.ValidationErrors `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "cash must be greater than total", resp.Message)
	assert.True(t, resp.Errors.Has("cash", checkout.CodeInsufficientCash))
	assert.Equal(t, 0, app.orders.createdCount())
}

func TestCreateOrder_MissingName(t *testing.T) {
	app := newTestApplication(t, noRateLimit)
	order := aliceOrder(60000)
	order.Name = ""

	rec := app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), order)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)
}

func TestCreateOrder_Unauthorized(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	rec := app.do(t, http.MethodPost, "/v1/order", "", aliceOrder(60000))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/order", "not-a-jwt", aliceOrder(60000))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/order", app.token(t, 99), aliceOrder(60000))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "unknown cashier")

	assert.Equal(t, 0, app.orders.createdCount())
}

func TestCreateOrder_UnknownField(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	body := `{"name":"Alice","cash":60000,"sub_total":50000,"tax":5000,"tip":1,
		"details":[{"name":"Fried Rice","quantity":2,"price":25000}]}`
	rec := app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_StoreFailure(t *testing.T) {
	app := newTestApplication(t, noRateLimit)
	app.orders.err = errors.New("db down")

	rec := app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), aliceOrder(60000))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "the server encountered a problem")
}

func TestCreateOrder_RateLimited(t *testing.T) {
	app := newTestApplication(t, ratelimiter.Config{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: true})
	token := app.token(t, 1)

	rec := app.do(t, http.MethodPost, "/v1/order", token, aliceOrder(60000))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/order", token, aliceOrder(60000))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestGetOrder(t *testing.T) {
	app := newTestApplication(t, noRateLimit)
	token := app.token(t, 1)

	rec := app.do(t, http.MethodPost, "/v1/order", token, aliceOrder(60000))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodGet, "/v1/orders/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order_number":"FOOD-TEST-0001"`)

	rec = app.do(t, http.MethodGet, "/v1/orders/1", app.token(t, 2), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "other cashier's order")

	rec = app.do(t, http.MethodGet, "/v1/orders/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders(t *testing.T) {
	app := newTestApplication(t, noRateLimit)
	token := app.token(t, 1)

	for i := 0; i < 3; i++ {
		rec := app.do(t, http.MethodPost, "/v1/order", token, aliceOrder(60000))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := app.do(t, http.MethodGet, "/v1/orders?limit=2&page=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Orders     []orders.Order `json:"orders"`
			Pagination struct {
				Total      int  `json:"total"`
				TotalPages int  `json:"total_pages"`
				HasNext    bool `json:"has_next"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data.Orders, 2)
	assert.Equal(t, 3, resp.Data.Pagination.Total)
	assert.Equal(t, 2, resp.Data.Pagination.TotalPages)
	assert.True(t, resp.Data.Pagination.HasNext)
}

// --- auth tests ---

func TestCreateToken(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	rec := app.do(t, http.MethodPost, "/v1/authentication/token", "", CreateTokenPayload{Username: "till1", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data TokenPair `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Data.AccessToken)

	rec = app.do(t, http.MethodPost, "/v1/order", resp.Data.AccessToken, aliceOrder(60000))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/authentication/refresh", "", RefreshTokenPayload{RefreshToken: resp.Data.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateToken_Rejected(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	rec := app.do(t, http.MethodPost, "/v1/authentication/token", "", CreateTokenPayload{Username: "till1", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/authentication/token", "", CreateTokenPayload{Username: "nobody", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/authentication/token", "", CreateTokenPayload{Username: "till1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/authentication/refresh", "", RefreshTokenPayload{RefreshToken: app.token(t, 1)})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access token is not a refresh token")
}

// --- ops endpoints ---

func TestHealth_BasicAuth(t *testing.T) {
	app := newTestApplication(t, noRateLimit)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	app.mount().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req = httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:admin")))
	rec = httptest.NewRecorder()
	app.mount().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApplication(t, noRateLimit)
	app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), aliceOrder(60000))
	app.do(t, http.MethodPost, "/v1/order", app.token(t, 1), aliceOrder(1))

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:admin")))
	rec := httptest.NewRecorder()
	app.mount().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "foodstore_orders_created_total 1")
	assert.Contains(t, rec.Body.String(), `foodstore_orders_rejected_total{code="insufficient_cash"} 1`)
}

// --- checkout flow against the real router ---

func TestCheckoutFlowAgainstAPI(t *testing.T) {
	app := newTestApplication(t, noRateLimit)
	srv := httptest.NewServer(app.mount())
	defer srv.Close()

	store := checkout.NewStore()
	flow := checkout.NewFlow(orderapi.NewClient(srv.URL+"/v1", srv.Client()), store, nil)
	req := aliceOrder(60000)

	payload, err := flow.Submit(context.Background(), req.Form(), req.Cart(), app.token(t, 1))
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"order_number":"FOOD-TEST-0001"`)
	assert.Equal(t, checkout.StatusSucceeded, store.State().Status)

	_, err = flow.Submit(context.Background(), req.Form(), req.Cart(), "expired")
	require.ErrorIs(t, err, checkout.ErrOrderFailed)
	assert.Equal(t, checkout.StatusFailed, store.State().Status)
	assert.Equal(t, 1, app.orders.createdCount())
}
