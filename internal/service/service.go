package service

import (
	"context"
	"errors"

	"cardapio/internal/model"

	"github.com/google/uuid"
)

// StoreService defines operations on the store profile and its reference data.
type StoreService interface {
	// Storefront returns everything the storefront needs, including whether the store is open now.
	Storefront(ctx context.Context) (*model.StorefrontData, error)

	// GetSettings returns the store settings aggregate.
	GetSettings(ctx context.Context) (*model.Settings, error)

	// UpdateStore applies a partial update and returns the stored result.
	UpdateStore(ctx context.Context, req *model.StoreUpdateRequest) (*model.Settings, error)

	// UpdateHours replaces the weekly opening hours.
	UpdateHours(ctx context.Context, hours []model.StoreHour) (*model.Settings, error)
}

// CatalogService defines operations for categories and menu items.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, req *model.CategoryUpdateRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// ReorderCategories rewrites the display order from ids and returns the new list.
	ReorderCategories(ctx context.Context, ids []string) ([]model.Category, error)

	ListMenu(ctx context.Context) ([]model.MenuItem, error)
	CreateMenuItem(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, req *model.MenuItemUpdateRequest) (*model.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Quote prices a cart against the current menu without placing an order.
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error)

	// CreateOrder validates the cart, recomputes its totals and stores the order.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns a filtered page of orders and the polling cursor.
	List(ctx context.Context, q model.OrderQuery) (*model.OrderListResponse, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every order and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)

	// Receipt renders the printable receipt, encoded for codepage ("" for UTF-8).
	Receipt(ctx context.Context, id uuid.UUID, codepage string) ([]byte, error)
}

// AuthService defines operations on the shared admin password.
type AuthService interface {
	// Login returns model.ErrInvalidPassword unless password is correct.
	Login(ctx context.Context, password string) error

	// VerifyPassword reports whether password is the current admin password.
	VerifyPassword(ctx context.Context, password string) (bool, error)

	// UsingDefaultPassword reports whether no custom password has been set.
	// Lookup failures report true.
	UsingDefaultPassword(ctx context.Context) bool

	// ChangePassword replaces the admin password after checking the current one.
	ChangePassword(ctx context.Context, current, next string) error
}

// isDomainError reports whether err carries a client-facing code and should
// be returned unwrapped.
func isDomainError(err error) bool {
	var de *model.DomainError
	return errors.As(err, &de)
}
