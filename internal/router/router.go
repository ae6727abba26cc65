package router

import (
	"net/http"

	"cardapio/internal/handler"
	"cardapio/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Store   *handler.StoreHandler
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
	Auth    *handler.AuthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// Admin routes require the X-Admin-Password header checked by verifier.
func New(h Handlers, verifier middleware.PasswordVerifier, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.AdminAuth(verifier, logger)
	adminFunc := func(f http.HandlerFunc) http.Handler { return admin(f) }

	// Public storefront routes
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/data", h.Store.Storefront)
	mux.HandleFunc("GET /api/categories", h.Catalog.ListCategories)
	mux.HandleFunc("GET /api/menu", h.Catalog.ListMenu)
	mux.HandleFunc("POST /api/cart/quote", h.Order.Quote)
	mux.HandleFunc("POST /api/orders", h.Order.Create)
	mux.HandleFunc("POST /api/admin/login", h.Auth.Login)
	mux.HandleFunc("GET /api/admin/auth-status", h.Auth.Status)

	// Admin routes
	mux.Handle("POST /api/admin/change-password", adminFunc(h.Auth.ChangePassword))

	mux.Handle("GET /api/store", adminFunc(h.Store.GetSettings))
	mux.Handle("PATCH /api/store", adminFunc(h.Store.Update))
	mux.Handle("PATCH /api/store/hours", adminFunc(h.Store.UpdateHours))

	mux.Handle("POST /api/categories", adminFunc(h.Catalog.CreateCategory))
	mux.Handle("PATCH /api/categories/reorder", adminFunc(h.Catalog.ReorderCategories))
	mux.Handle("PATCH /api/categories/{id}", adminFunc(h.Catalog.UpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", adminFunc(h.Catalog.DeleteCategory))

	mux.Handle("POST /api/menu", adminFunc(h.Catalog.CreateMenuItem))
	mux.Handle("PATCH /api/menu/{id}", adminFunc(h.Catalog.UpdateMenuItem))
	mux.Handle("DELETE /api/menu/{id}", adminFunc(h.Catalog.DeleteMenuItem))

	mux.Handle("GET /api/orders", adminFunc(h.Order.List))
	mux.Handle("DELETE /api/orders", adminFunc(h.Order.DeleteAll))
	mux.Handle("GET /api/orders/{id}", adminFunc(h.Order.GetByID))
	mux.Handle("PATCH /api/orders/{id}", adminFunc(h.Order.UpdateStatus))
	mux.Handle("DELETE /api/orders/{id}", adminFunc(h.Order.Delete))
	mux.Handle("GET /api/orders/{id}/receipt", adminFunc(h.Order.Receipt))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
