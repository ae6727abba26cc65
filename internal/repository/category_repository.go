package repository

import (
	"context"
	"errors"
	"fmt"

	"cardapio/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements CategoryRepository using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, icon, sort_order FROM categories ORDER BY sort_order, name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, scanCategory)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan categories")
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, icon, sort_order FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	category, err := pgx.CollectOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to scan category")
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &category, nil
}

// Create appends the category at max(sort_order)+1.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, icon, sort_order)
		SELECT $1, $2, $3, COALESCE(MAX(sort_order) + 1, 0) FROM categories
		RETURNING sort_order
	`, category.ID, category.Name, category.Icon).Scan(&category.SortOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCategoryExists
		}
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.logger.Info().
		Str("category_id", category.ID).
		Int("sort_order", category.SortOrder).
		Msg("category created")
	return nil
}

// Update saves name and icon and moves the category to its SortOrder,
// shifting the categories in between so the order stays 0..n-1. A position
// past the end is clamped to the last slot.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `LOCK TABLE categories IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock categories: %w", err)
	}

	var current, count int
	err = tx.QueryRow(ctx, `
		SELECT sort_order, (SELECT COUNT(*) FROM categories) FROM categories WHERE id = $1
	`, category.ID).Scan(&current, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCategoryNotFound
		}
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to query category position")
		return fmt.Errorf("failed to query category position: %w", err)
	}

	target := min(max(category.SortOrder, 0), count-1)
	switch {
	case target < current:
		_, err = tx.Exec(ctx, `
			UPDATE categories SET sort_order = sort_order + 1
			WHERE sort_order >= $1 AND sort_order < $2 AND id <> $3
		`, target, current, category.ID)
	case target > current:
		_, err = tx.Exec(ctx, `
			UPDATE categories SET sort_order = sort_order - 1
			WHERE sort_order > $1 AND sort_order <= $2 AND id <> $3
		`, current, target, category.ID)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to shift categories")
		return fmt.Errorf("failed to shift categories: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		UPDATE categories SET name = $2, icon = $3, sort_order = $4 WHERE id = $1
	`, category.ID, category.Name, category.Icon, target); err != nil {
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit category update: %w", err)
	}

	if target != current {
		r.logger.Info().
			Str("category_id", category.ID).
			Int("from", current).
			Int("to", target).
			Msg("category moved")
	}
	category.SortOrder = target
	return nil
}

// Delete removes the category and closes the gap it leaves in the ordering.
func (r *categoryRepository) Delete(ctx context.Context, id string) (deleted bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var position int
	err = tx.QueryRow(ctx, `DELETE FROM categories WHERE id = $1 RETURNING sort_order`, id).Scan(&position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = tx.Rollback(ctx)
			return false, nil
		}
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to delete category")
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	if _, err = tx.Exec(ctx, `UPDATE categories SET sort_order = sort_order - 1 WHERE sort_order > $1`, position); err != nil {
		r.logger.Error().Err(err).Msg("failed to compact category order")
		return false, fmt.Errorf("failed to compact category order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit category delete: %w", err)
	}

	r.logger.Info().Str("category_id", id).Msg("category deleted")
	return true, nil
}

// Reorder assigns sort order 0..len(ids)-1 following ids. Categories left
// out keep their relative order after them. Unknown ids fail the whole
// operation.
func (r *categoryRepository) Reorder(ctx context.Context, ids []string) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for i, id := range ids {
		batch.Queue(`UPDATE categories SET sort_order = $2 WHERE id = $1`, id, i)
	}

	results := tx.SendBatch(ctx, batch)
	for _, id := range ids {
		tag, execErr := results.Exec()
		if execErr != nil {
			results.Close()
			r.logger.Error().Err(execErr).Str("category_id", id).Msg("failed to reorder category")
			return fmt.Errorf("failed to reorder category %s: %w", id, execErr)
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return model.ErrCategoryNotFound
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("failed to reorder categories: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		UPDATE categories c SET sort_order = $1::int + rest.pos - 1
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY sort_order, name) AS pos
			FROM categories WHERE NOT (id = ANY($2))
		) rest
		WHERE c.id = rest.id
	`, len(ids), ids); err != nil {
		r.logger.Error().Err(err).Msg("failed to append remaining categories")
		return fmt.Errorf("failed to append remaining categories: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit category order: %w", err)
	}

	r.logger.Info().Int("count", len(ids)).Msg("categories reordered")
	return nil
}

func scanCategory(row pgx.CollectableRow) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.SortOrder)
	return c, err
}
