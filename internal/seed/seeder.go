package seed

import (
	"context"
	"fmt"
	"time"

	"cardapio/internal/repository"

	"github.com/rs/zerolog"
)

// Result counts what Apply wrote.
type Result struct {
	CategoriesCreated int
	CategoriesUpdated int
	ItemsCreated      int
	ItemsUpdated      int
}

// Seeder upserts a catalog into the repositories. Records absent from the
// catalog are left alone.
type Seeder struct {
	settings   repository.SettingsRepository
	categories repository.CategoryRepository
	menu       repository.MenuRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSeeder creates a Seeder.
func NewSeeder(
	settings repository.SettingsRepository,
	categories repository.CategoryRepository,
	menu repository.MenuRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		settings:   settings,
		categories: categories,
		menu:       menu,
		logger:     logger.With().Str("component", "seeder").Logger(),
		now:        time.Now,
	}
}

// Apply writes the store settings, then categories in catalog order, then menu items.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result

	if err := s.settings.Save(ctx, c.Settings()); err != nil {
		return res, fmt.Errorf("failed to save store settings: %w", err)
	}

	for _, entry := range c.Categories {
		existing, err := s.categories.GetByID(ctx, entry.ID)
		if err != nil {
			return res, fmt.Errorf("failed to look up category %s: %w", entry.ID, err)
		}

		if existing == nil {
			cat := categoryFromEntry(entry)
			if err := s.categories.Create(ctx, &cat); err != nil {
				return res, fmt.Errorf("failed to create category %s: %w", entry.ID, err)
			}
			res.CategoriesCreated++
			continue
		}

		existing.Name, existing.Icon = entry.Name, entry.Icon
		if err := s.categories.Update(ctx, existing); err != nil {
			return res, fmt.Errorf("failed to update category %s: %w", entry.ID, err)
		}
		res.CategoriesUpdated++
	}

	if err := s.reorder(ctx, c); err != nil {
		return res, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	for i := range c.MenuItems {
		item := c.MenuItems[i].MenuItem()
		item.UpdatedAt = now

		existing, err := s.menu.GetByID(ctx, item.ID)
		if err != nil {
			return res, fmt.Errorf("failed to look up menu item %s: %w", item.ID, err)
		}

		if existing == nil {
			item.CreatedAt = now
			if err := s.menu.Create(ctx, &item); err != nil {
				return res, fmt.Errorf("failed to create menu item %s: %w", item.ID, err)
			}
			res.ItemsCreated++
			continue
		}

		item.CreatedAt = existing.CreatedAt
		if err := s.menu.Update(ctx, &item, true); err != nil {
			return res, fmt.Errorf("failed to update menu item %s: %w", item.ID, err)
		}
		res.ItemsUpdated++
	}

	s.logger.Info().
		Int("categories_created", res.CategoriesCreated).
		Int("categories_updated", res.CategoriesUpdated).
		Int("items_created", res.ItemsCreated).
		Int("items_updated", res.ItemsUpdated).
		Msg("catalog applied")

	return res, nil
}

// reorder puts the catalog's categories first, in document order, followed
// by any other existing categories in their current order.
func (s *Seeder) reorder(ctx context.Context, c *Catalog) error {
	if len(c.Categories) == 0 {
		return nil
	}

	current, err := s.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	ids := make([]string, 0, len(current))
	seen := make(map[string]bool, len(c.Categories))
	for _, entry := range c.Categories {
		ids = append(ids, entry.ID)
		seen[entry.ID] = true
	}
	for _, cat := range current {
		if !seen[cat.ID] {
			ids = append(ids, cat.ID)
		}
	}

	if err := s.categories.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("failed to order categories: %w", err)
	}
	return nil
}
