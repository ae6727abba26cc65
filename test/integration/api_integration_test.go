package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cardapio/internal/middleware"
	"cardapio/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client issues requests against an in-process server.
type client struct {
	t        *testing.T
	server   http.Handler
	password string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.password != "" {
		req.Header.Set(middleware.AdminPasswordHeader, c.password)
	}
	w := httptest.NewRecorder()
	c.server.ServeHTTP(w, req)
	return w
}

func (c *client) admin() *client {
	return &client{t: c.t, server: c.server, password: AdminPassword}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func findItem(items []model.MenuItem, id string) *model.MenuItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func variantByName(item *model.MenuItem, name string) *model.MenuItemVariant {
	for i := range item.Variants {
		if item.Variants[i].Name == name {
			return &item.Variants[i]
		}
	}
	return nil
}

func floatPtr(f float64) *float64 { return &f }

func TestStorefrontAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	c := &client{t: t, server: NewTestServer(testDB.Pool, ServerOptions{})}

	t.Run("GET /api/data before seeding reports the store missing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := c.do(http.MethodGet, "/api/data", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, model.ErrCodeStoreNotInitialised, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("GET /api/data returns the seeded storefront", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		w := c.do(http.MethodGet, "/api/data", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decode[model.StorefrontData](t, w)
		assert.Equal(t, "Rei dos Salgados", data.Store.Name)
		assert.Len(t, data.Store.Hours, 7)
		assert.Contains(t, data.Store.PaymentMethods, "PIX")

		ids := make([]string, 0, len(data.Categories))
		for _, cat := range data.Categories {
			ids = append(ids, cat.ID)
		}
		assert.Equal(t, []string{"salgados-fritos", "salgados-assados", "lanches", "bebidas", "combos"}, ids)

		suco := findItem(data.MenuItems, "suco")
		require.NotNil(t, suco)
		assert.Len(t, suco.Variants, 3)
		assert.Equal(t, 6.0, suco.DisplayPrice)

		assert.NotContains(t, w.Body.String(), "adminPasswordHash")
		assert.NotContains(t, w.Body.String(), "admin_password_hash")
	})

	t.Run("seeding twice keeps one copy of everything", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		first := SeedCatalog(t, testDB.Pool)
		second := SeedCatalog(t, testDB.Pool)

		assert.Equal(t, 5, first.CategoriesCreated)
		assert.Zero(t, second.CategoriesCreated)
		assert.Equal(t, first.ItemsCreated, second.ItemsUpdated)

		w := c.do(http.MethodGet, "/api/categories", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Category](t, w), 5)
	})
}

func TestCheckoutAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	c := &client{t: t, server: NewTestServer(testDB.Pool, ServerOptions{StrictTransitions: true})}
	admin := c.admin()

	CleanupDB(t, testDB.Pool)
	SeedCatalog(t, testDB.Pool)

	menu := decode[[]model.MenuItem](t, c.do(http.MethodGet, "/api/menu", nil))
	suco := findItem(menu, "suco")
	require.NotNil(t, suco)
	laranja := variantByName(suco, "Laranja")
	maracuja := variantByName(suco, "Maracuja")
	require.NotNil(t, laranja)
	require.NotNil(t, maracuja)

	items := []model.OrderItemRequest{
		{ItemID: "coxinha-frango", Quantity: 2},
		{ItemID: "suco", VariantID: laranja.ID, Quantity: 1},
	}

	t.Run("quote prices the cart with the delivery fee", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/cart/quote", model.QuoteRequest{Items: items, Neighborhood: "Centro"})
		require.Equal(t, http.StatusOK, w.Code)

		quote := decode[model.QuoteResponse](t, w)
		assert.Equal(t, 3, quote.TotalItems)
		assert.Equal(t, 16.0, quote.Subtotal)
		assert.Equal(t, 2.0, quote.DeliveryFee)
		assert.Equal(t, 18.0, quote.Total)
	})

	var placed *model.Order

	t.Run("checkout persists the order and returns the WhatsApp link", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/orders", model.OrderRequest{
			Name:          "Maria",
			Phone:         "84 99999-0000",
			Address:       "Rua A, 10",
			Neighborhood:  "Centro",
			PaymentMethod: "Dinheiro",
			ChangeFor:     func() *string { s := "50"; return &s }(),
			Subtotal:      floatPtr(16),
			DeliveryFee:   floatPtr(2),
			Total:         floatPtr(18),
			Items:         items,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decode[model.OrderResponse](t, w)
		require.NotNil(t, resp.Order)
		placed = resp.Order
		assert.Equal(t, model.StatusReceived, placed.Status)
		assert.Equal(t, 18.0, placed.Total)
		assert.Len(t, placed.Items, 2)
		assert.True(t, strings.HasPrefix(resp.WhatsAppURL, "https://wa.me/5584921511524?text="))
	})

	t.Run("checkout rejects stale client totals", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/orders", model.OrderRequest{
			Name: "Joao", Phone: "1", Address: "Rua B", Neighborhood: "Centro", PaymentMethod: "PIX",
			Total: floatPtr(10),
			Items: items,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodePriceMismatch, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("checkout rejects an unavailable variant", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/orders", model.OrderRequest{
			Name: "Joao", Phone: "1", PaymentMethod: "PIX", Pickup: true,
			Items: []model.OrderItemRequest{{ItemID: "suco", VariantID: maracuja.ID, Quantity: 1}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeItemUnavailable, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("checkout requires a variant for items sold by variant", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/orders", model.OrderRequest{
			Name: "Joao", Phone: "1", PaymentMethod: "PIX", Pickup: true,
			Items: []model.OrderItemRequest{{ItemID: "suco", Quantity: 1}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeVariantRequired, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("order listing requires the admin password", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/orders", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin sees only the accepted order", func(t *testing.T) {
		require.NotNil(t, placed)
		w := admin.do(http.MethodGet, "/api/orders?status=todos&date=hoje", nil)
		require.Equal(t, http.StatusOK, w.Code)

		list := decode[model.OrderListResponse](t, w)
		require.Len(t, list.Orders, 1)
		assert.Equal(t, placed.ID, list.Orders[0].ID)
		assert.Equal(t, 1, list.Total)
	})

	t.Run("polling with the cursor returns only newer orders", func(t *testing.T) {
		first := decode[model.OrderListResponse](t, admin.do(http.MethodGet, "/api/orders", nil))
		cursor := first.Cursor

		time.Sleep(5 * time.Millisecond)
		w := c.do(http.MethodPost, "/api/orders", model.OrderRequest{
			Name: "Ana", Phone: "2", PaymentMethod: "PIX", Pickup: true,
			Items: []model.OrderItemRequest{{ItemID: "agua", Quantity: 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		second := decode[model.OrderResponse](t, w).Order

		path := "/api/orders?since=" + url.QueryEscape(cursor.Format(time.RFC3339Nano))
		polled := decode[model.OrderListResponse](t, admin.do(http.MethodGet, path, nil))
		require.Len(t, polled.Orders, 1)
		assert.Equal(t, second.ID, polled.Orders[0].ID)
		assert.True(t, !polled.Cursor.Before(second.CreatedAt))

		again := decode[model.OrderListResponse](t, admin.do(http.MethodGet,
			"/api/orders?since="+url.QueryEscape(polled.Cursor.Format(time.RFC3339Nano)), nil))
		assert.Empty(t, again.Orders)
	})

	t.Run("status moves forward and refuses to go back", func(t *testing.T) {
		require.NotNil(t, placed)
		path := "/api/orders/" + placed.ID.String()

		w := admin.do(http.MethodPatch, path, model.StatusUpdateRequest{Status: "confirmado"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.StatusConfirmed, decode[model.Order](t, w).Status)

		w = admin.do(http.MethodPatch, path, model.StatusUpdateRequest{Status: "recebido"})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = admin.do(http.MethodPatch, path, model.StatusUpdateRequest{Status: "voando"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("receipt renders the order as plain text", func(t *testing.T) {
		require.NotNil(t, placed)
		w := admin.do(http.MethodGet, "/api/orders/"+placed.ID.String()+"/receipt", nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		body := w.Body.String()
		assert.Contains(t, body, "REI DOS SALGADOS")
		assert.Contains(t, body, "Maria")
		assert.Contains(t, body, placed.ShortID())
	})

	t.Run("delete all clears the order book", func(t *testing.T) {
		w := admin.do(http.MethodDelete, "/api/orders", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool  `json:"success"`
			Deleted int64 `json:"deleted"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.EqualValues(t, 2, body.Deleted)

		list := decode[model.OrderListResponse](t, admin.do(http.MethodGet, "/api/orders", nil))
		assert.Empty(t, list.Orders)
	})
}

func TestAdminAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	c := &client{t: t, server: NewTestServer(testDB.Pool, ServerOptions{})}
	admin := c.admin()

	CleanupDB(t, testDB.Pool)
	SeedCatalog(t, testDB.Pool)

	t.Run("catalog edits show up on the storefront", func(t *testing.T) {
		w := admin.do(http.MethodPost, "/api/categories", model.CategoryRequest{Name: "Sobremesas", Icon: "cake"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		cat := decode[model.Category](t, w)
		assert.Equal(t, "sobremesas", cat.ID)

		w = admin.do(http.MethodPost, "/api/menu", model.MenuItemRequest{
			Name: "Pudim", Category: cat.ID, Price: floatPtr(8),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		item := decode[model.MenuItem](t, w)
		assert.Equal(t, model.DefaultMenuImage, item.Image)

		w = admin.do(http.MethodPatch, "/api/categories/reorder", model.ReorderRequest{
			IDs: []string{"sobremesas", "salgados-fritos", "salgados-assados", "lanches", "bebidas", "combos"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decode[model.StorefrontData](t, c.do(http.MethodGet, "/api/data", nil))
		assert.Equal(t, "sobremesas", data.Categories[0].ID)
		assert.NotNil(t, findItem(data.MenuItems, item.ID))

		w = admin.do(http.MethodDelete, "/api/menu/"+item.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		w = admin.do(http.MethodDelete, "/api/menu/"+item.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store settings update and hours replace", func(t *testing.T) {
		name := "Rei dos Salgados 2"
		w := admin.do(http.MethodPatch, "/api/store", model.StoreUpdateRequest{Name: &name})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, name, decode[model.Settings](t, w).Store.Name)

		w = admin.do(http.MethodPatch, "/api/store/hours", []model.StoreHour{
			{Day: "Segunda", Closed: true},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, decode[[]model.StoreHour](t, w), 1)

		w = admin.do(http.MethodPatch, "/api/store/hours", []model.StoreHour{
			{Day: "Segunda", Open: "25:00", Close: "20:00"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("changing the password retires the default one", func(t *testing.T) {
		status := decode[map[string]bool](t, c.do(http.MethodGet, "/api/admin/auth-status", nil))
		assert.True(t, status["usingDefaultPassword"])

		w := admin.do(http.MethodPost, "/api/admin/change-password", map[string]string{
			"currentPassword": AdminPassword,
			"newPassword":     "coxinha-secreta",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = c.do(http.MethodPost, "/api/admin/login", map[string]string{"password": AdminPassword})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = c.do(http.MethodPost, "/api/admin/login", map[string]string{"password": "coxinha-secreta"})
		assert.Equal(t, http.StatusOK, w.Code)

		w = admin.do(http.MethodGet, "/api/store", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		status = decode[map[string]bool](t, c.do(http.MethodGet, "/api/admin/auth-status", nil))
		assert.False(t, status["usingDefaultPassword"])
	})
}
