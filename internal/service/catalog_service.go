package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"cardapio/internal/model"
	"cardapio/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// catalogService implements CatalogService.
type catalogService struct {
	categoryRepo repository.CategoryRepository
	menuRepo     repository.MenuRepository
	now          func() time.Time
	logger       zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	menuRepo repository.MenuRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		menuRepo:     menuRepo,
		now:          time.Now,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// CreateCategory appends a category. A missing id is derived from the name.
func (s *catalogService) CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, model.NewValidationError("category name is required")
	}

	category := &model.Category{
		ID:   strings.TrimSpace(req.ID),
		Name: strings.TrimSpace(req.Name),
		Icon: strings.TrimSpace(req.Icon),
	}
	if category.ID == "" {
		category.ID = Slugify(category.Name)
	}
	if category.ID == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidField, "category id cannot be derived from the name")
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to create category")
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id string, req *model.CategoryUpdateRequest) (*model.Category, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to get category")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, model.NewValidationError("category name cannot be empty")
		}
		category.Name = name
	}
	if req.Icon != nil {
		category.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			return nil, model.NewDomainError(model.ErrCodeInvalidField, "sortOrder cannot be negative")
		}
		category.SortOrder = *req.SortOrder
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to update category")
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category together with its menu items.
func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	deleted, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !deleted {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (s *catalogService) ReorderCategories(ctx context.Context, ids []string) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, model.NewValidationError("ids are required")
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("duplicate category id %q", id))
		}
		seen[id] = true
	}

	if err := s.categoryRepo.Reorder(ctx, ids); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to reorder categories")
		return nil, fmt.Errorf("failed to reorder categories: %w", err)
	}

	return s.ListCategories(ctx)
}

func (s *catalogService) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

// CreateMenuItem validates and stores a new item. Without an explicit price
// an item with variants takes its cheapest variant's price.
func (s *catalogService) CreateMenuItem(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if err := validateMenuItemRequest(req); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	item := &model.MenuItem{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
		CategoryID:  req.Category,
		Available:   req.Available == nil || *req.Available,
		Variants:    variantsFromRequest(req.Variants),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.ID == "" {
		item.ID = Slugify(item.Name)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Image == "" {
		item.Image = model.DefaultMenuImage
	}
	if req.Price != nil {
		item.Price = *req.Price
	} else {
		item.Price = item.ComputeDisplayPrice()
	}
	item.DisplayPrice = item.ComputeDisplayPrice()

	if err := s.menuRepo.Create(ctx, item); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	return item, nil
}

// UpdateMenuItem applies a partial update. A non-nil variant list replaces
// every existing variant.
func (s *catalogService) UpdateMenuItem(ctx context.Context, id string, req *model.MenuItemUpdateRequest) (*model.MenuItem, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}

	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.ErrMenuItemNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, model.NewValidationError("menu item name cannot be empty")
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, model.NewDomainError(model.ErrCodeInvalidField, "price cannot be negative")
		}
		item.Price = *req.Price
	}
	if req.Image != nil {
		item.Image = strings.TrimSpace(*req.Image)
		if item.Image == "" {
			item.Image = model.DefaultMenuImage
		}
	}
	if req.Category != nil {
		if *req.Category == "" {
			return nil, model.NewValidationError("menu item category cannot be empty")
		}
		item.CategoryID = *req.Category
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	replaceVariants := req.Variants != nil
	if replaceVariants {
		if err := validateVariants(*req.Variants); err != nil {
			return nil, err
		}
		item.Variants = variantsFromRequest(*req.Variants)
	}

	item.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	item.DisplayPrice = item.ComputeDisplayPrice()

	if err := s.menuRepo.Update(ctx, item, replaceVariants); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to update menu item")
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	return item, nil
}

func (s *catalogService) DeleteMenuItem(ctx context.Context, id string) error {
	deleted, err := s.menuRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if !deleted {
		return model.ErrMenuItemNotFound
	}
	return nil
}

func validateMenuItemRequest(req *model.MenuItemRequest) error {
	if req == nil {
		return model.NewValidationError("request body is required")
	}

	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if req.Category == "" {
		missing = append(missing, "category")
	}
	if req.Price == nil && len(req.Variants) == 0 {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return model.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	if req.Price != nil && *req.Price < 0 {
		return model.NewDomainError(model.ErrCodeInvalidField, "price cannot be negative")
	}
	return validateVariants(req.Variants)
}

func validateVariants(variants []model.VariantRequest) error {
	for i, v := range variants {
		if strings.TrimSpace(v.Name) == "" {
			return model.NewValidationError(fmt.Sprintf("variants[%d]: name is required", i))
		}
		if v.Price < 0 {
			return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("variants[%d]: price cannot be negative", i))
		}
	}
	return nil
}

func variantsFromRequest(reqs []model.VariantRequest) []model.MenuItemVariant {
	variants := make([]model.MenuItemVariant, len(reqs))
	for i, v := range reqs {
		variants[i] = model.MenuItemVariant{
			Name:      strings.TrimSpace(v.Name),
			Price:     v.Price,
			Available: v.Available == nil || *v.Available,
		}
	}
	return variants
}

// Slugify turns a display name into a lowercase ASCII id: accents are
// stripped and runs of other characters collapse into single hyphens.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
