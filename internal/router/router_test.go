package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardapio/internal/handler"
	"cardapio/internal/middleware"
	"cardapio/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth accepts a single password and reports it as the default one.
type stubAuth struct {
	password string
}

func (s stubAuth) Login(_ context.Context, password string) error {
	if password != s.password {
		return model.ErrInvalidPassword
	}
	return nil
}

func (s stubAuth) VerifyPassword(_ context.Context, password string) (bool, error) {
	return password == s.password, nil
}

func (s stubAuth) UsingDefaultPassword(context.Context) bool { return true }

func (s stubAuth) ChangePassword(context.Context, string, string) error { return nil }

// stubOrders serves an empty order book.
type stubOrders struct{}

func (stubOrders) Quote(context.Context, *model.QuoteRequest) (*model.QuoteResponse, error) {
	return &model.QuoteResponse{Lines: []model.QuoteLine{}}, nil
}

func (stubOrders) CreateOrder(context.Context, *model.OrderRequest) (*model.OrderResponse, error) {
	return nil, model.ErrStoreNotInitialised
}

func (stubOrders) GetByID(context.Context, uuid.UUID) (*model.Order, error) {
	return nil, model.ErrOrderNotFound
}

func (stubOrders) List(context.Context, model.OrderQuery) (*model.OrderListResponse, error) {
	return &model.OrderListResponse{Orders: []model.Order{}}, nil
}

func (stubOrders) UpdateStatus(context.Context, uuid.UUID, string) (*model.Order, error) {
	return nil, model.ErrOrderNotFound
}

func (stubOrders) Delete(context.Context, uuid.UUID) error { return model.ErrOrderNotFound }

func (stubOrders) DeleteAll(context.Context) (int64, error) { return 0, nil }

func (stubOrders) Receipt(context.Context, uuid.UUID, string) ([]byte, error) {
	return nil, model.ErrOrderNotFound
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	auth := stubAuth{password: "admin123"}
	return New(Handlers{
		Order: handler.NewOrderHandler(stubOrders{}, logger),
		Auth:  handler.NewAuthHandler(auth, logger),
	}, auth, logger)
}

func TestRouter_Routes(t *testing.T) {
	orderPath := "/api/orders/" + uuid.NewString()

	tests := []struct {
		name           string
		method         string
		path           string
		password       string
		expectedStatus int
	}{
		{name: "Health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Auth status is public", method: http.MethodGet, path: "/api/admin/auth-status", expectedStatus: http.StatusOK},
		{name: "Quote is public", method: http.MethodPost, path: "/api/cart/quote", expectedStatus: http.StatusOK},
		{name: "Order list requires password", method: http.MethodGet, path: "/api/orders", expectedStatus: http.StatusUnauthorized},
		{name: "Order list with wrong password", method: http.MethodGet, path: "/api/orders", password: "guess", expectedStatus: http.StatusUnauthorized},
		{name: "Order list with password", method: http.MethodGet, path: "/api/orders", password: "admin123", expectedStatus: http.StatusOK},
		{name: "Order by id", method: http.MethodGet, path: orderPath, password: "admin123", expectedStatus: http.StatusNotFound},
		{name: "Receipt route", method: http.MethodGet, path: orderPath + "/receipt", password: "admin123", expectedStatus: http.StatusNotFound},
		{name: "Clear all orders", method: http.MethodDelete, path: "/api/orders", password: "admin123", expectedStatus: http.StatusOK},
		{name: "Store settings require password", method: http.MethodPatch, path: "/api/store", expectedStatus: http.StatusUnauthorized},
		{name: "Menu writes require password", method: http.MethodPost, path: "/api/menu", expectedStatus: http.StatusUnauthorized},
		{name: "Category delete requires password", method: http.MethodDelete, path: "/api/categories/bebidas", expectedStatus: http.StatusUnauthorized},
		{name: "Change password requires password", method: http.MethodPost, path: "/api/admin/change-password", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong method", method: http.MethodPut, path: "/api/orders", password: "admin123", expectedStatus: http.StatusMethodNotAllowed},
		{name: "Unknown route", method: http.MethodGet, path: "/api/nothing", expectedStatus: http.StatusNotFound},
		{name: "Preflight", method: http.MethodOptions, path: "/api/orders", expectedStatus: http.StatusNoContent},
	}

	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.method == http.MethodPost {
				body = strings.NewReader(`{"items":[]}`)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.password != "" {
				req.Header.Set(middleware.AdminPasswordHeader, tt.password)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRouter_AuthStatusBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth-status", nil)
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body["usingDefaultPassword"])
}
