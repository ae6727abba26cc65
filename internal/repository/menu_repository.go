package repository

import (
	"context"
	"fmt"

	"cardapio/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const menuItemColumns = `id, name, description, price, image, category_id, available, created_at, updated_at`

// menuRepository implements MenuRepository using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// List returns every menu item with its variants, ordered by name.
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	return r.query(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY name, id`)
}

// GetByID returns nil when the item does not exist.
func (r *menuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	items, err := r.query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		r.logger.Debug().Str("item_id", id).Msg("menu item not found")
		return nil, nil
	}
	return &items[0], nil
}

// GetByIDs returns the items that exist among ids.
func (r *menuRepository) GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}
	return r.query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1) ORDER BY name, id`, ids)
}

// query loads items and attaches their variants with a second query.
func (r *menuRepository) query(ctx context.Context, sql string, args ...any) ([]model.MenuItem, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.MenuItem, error) {
		var m model.MenuItem
		err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Image, &m.CategoryID, &m.Available, &m.CreatedAt, &m.UpdatedAt)
		return m, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan menu item row")
		return nil, fmt.Errorf("failed to scan menu item: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
		items[i].Variants = []model.MenuItemVariant{}
	}

	variantRows, err := r.pool.Query(ctx, `
		SELECT id, menu_item_id, name, price, available
		FROM menu_item_variants
		WHERE menu_item_id = ANY($1)
		ORDER BY menu_item_id, position
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu item variants")
		return nil, fmt.Errorf("failed to query menu item variants: %w", err)
	}

	variants, err := pgx.CollectRows(variantRows, func(row pgx.CollectableRow) (model.MenuItemVariant, error) {
		var v model.MenuItemVariant
		err := row.Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price, &v.Available)
		return v, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan menu item variant row")
		return nil, fmt.Errorf("failed to scan menu item variant: %w", err)
	}

	for _, v := range variants {
		i := index[v.MenuItemID]
		items[i].Variants = append(items[i].Variants, v)
	}
	for i := range items {
		items[i].DisplayPrice = items[i].ComputeDisplayPrice()
	}

	return items, nil
}

// Create inserts the item and its variants. Variants without an id get one.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO menu_items (`+menuItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, item.ID, item.Name, item.Description, item.Price, item.Image, item.CategoryID, item.Available, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return model.ErrMenuItemExists
		case isForeignKeyViolation(err):
			return model.ErrCategoryNotFound
		}
		r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to create menu item")
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	if err = r.insertVariants(ctx, tx, item); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit menu item: %w", err)
	}

	r.logger.Info().
		Str("item_id", item.ID).
		Int("variants", len(item.Variants)).
		Msg("menu item created")
	return nil
}

// Update writes the item columns and optionally replaces its variants.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem, replaceVariants bool) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, image = $5, category_id = $6, available = $7, updated_at = $8
		WHERE id = $1
	`, item.ID, item.Name, item.Description, item.Price, item.Image, item.CategoryID, item.Available, item.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrCategoryNotFound
		}
		r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to update menu item")
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	if replaceVariants {
		if _, err = tx.Exec(ctx, `DELETE FROM menu_item_variants WHERE menu_item_id = $1`, item.ID); err != nil {
			r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to delete menu item variants")
			return fmt.Errorf("failed to delete menu item variants: %w", err)
		}
		if err = r.insertVariants(ctx, tx, item); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit menu item: %w", err)
	}

	r.logger.Info().
		Str("item_id", item.ID).
		Bool("variants_replaced", replaceVariants).
		Msg("menu item updated")
	return nil
}

func (r *menuRepository) insertVariants(ctx context.Context, tx pgx.Tx, item *model.MenuItem) error {
	if len(item.Variants) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range item.Variants {
		v := &item.Variants[i]
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		v.MenuItemID = item.ID
		batch.Queue(`
			INSERT INTO menu_item_variants (id, menu_item_id, name, price, available, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, v.ID, v.MenuItemID, v.Name, v.Price, v.Available, i)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to insert menu item variants")
		return fmt.Errorf("failed to insert menu item variants: %w", err)
	}
	return nil
}

// Delete removes the item; variants go with it through the foreign key.
func (r *menuRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", id).Msg("failed to delete menu item")
		return false, fmt.Errorf("failed to delete menu item: %w", err)
	}

	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.Info().Str("item_id", id).Msg("menu item deleted")
	}
	return deleted, nil
}
