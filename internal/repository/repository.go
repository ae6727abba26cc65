package repository

import (
	"context"

	"cardapio/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository persists the store aggregate.
type SettingsRepository interface {
	// Load returns the store settings, or nil when the store row does not exist yet.
	Load(ctx context.Context) (*model.Settings, error)

	// Save upserts the store profile and replaces its hours, payment methods
	// and delivery fees in a single transaction. The password hash is not touched.
	Save(ctx context.Context, settings *model.Settings) error

	// SetPasswordHash stores a new admin password hash, creating the store row if needed.
	SetPasswordHash(ctx context.Context, hash string) error
}

// CategoryRepository defines data access for menu categories.
type CategoryRepository interface {
	// List returns all categories by sort order.
	List(ctx context.Context) ([]model.Category, error)

	// GetByID returns nil when the category does not exist.
	GetByID(ctx context.Context, id string) (*model.Category, error)

	// Create appends the category after the current last one and sets its SortOrder.
	Create(ctx context.Context, category *model.Category) error

	// Update moves the category to its SortOrder and writes the clamped
	// position back.
	Update(ctx context.Context, category *model.Category) error

	// Delete removes the category and, through cascading, its menu items.
	// It reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)

	// Reorder puts ids first, in order. Categories left out follow them.
	Reorder(ctx context.Context, ids []string) error
}

// MenuRepository defines data access for menu items and their variants.
type MenuRepository interface {
	// List returns every menu item with its variants, ordered by name.
	List(ctx context.Context) ([]model.MenuItem, error)

	// GetByID returns nil when the item does not exist.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// GetByIDs returns the items that exist among ids, with variants.
	GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error)

	// Create inserts the item and its variants.
	Create(ctx context.Context, item *model.MenuItem) error

	// Update writes the item's columns. When replaceVariants is set every
	// existing variant is deleted and item.Variants inserted in its place.
	Update(ctx context.Context, item *model.MenuItem, replaceVariants bool) error

	// Delete removes the item and its variants. It reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items, or nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns the page of orders matching filter and the total number of matches.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)

	// UpdateStatus sets the order status and returns the updated order, or nil
	// when it does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// Delete removes the order and its items. It reports whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteAll removes every order and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)
}
