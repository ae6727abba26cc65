package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/schedule"

	"github.com/rs/zerolog"
)

// storeService implements StoreService.
type storeService struct {
	settingsRepo repository.SettingsRepository
	categoryRepo repository.CategoryRepository
	menuRepo     repository.MenuRepository
	location     *time.Location
	now          func() time.Time
	logger       zerolog.Logger
}

// NewStoreService creates a new store service. Opening hours are evaluated in loc.
func NewStoreService(
	settingsRepo repository.SettingsRepository,
	categoryRepo repository.CategoryRepository,
	menuRepo repository.MenuRepository,
	loc *time.Location,
	logger zerolog.Logger,
) StoreService {
	if loc == nil {
		loc = time.UTC
	}
	return &storeService{
		settingsRepo: settingsRepo,
		categoryRepo: categoryRepo,
		menuRepo:     menuRepo,
		location:     loc,
		now:          time.Now,
		logger:       logger.With().Str("service", "store").Logger(),
	}
}

// Storefront assembles the public menu snapshot.
func (s *storeService) Storefront(ctx context.Context) (*model.StorefrontData, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	if categories == nil {
		categories = []model.Category{}
	}
	if items == nil {
		items = []model.MenuItem{}
	}

	return &model.StorefrontData{
		Store: model.StoreInfo{
			Store:          settings.Store,
			PaymentMethods: settings.PaymentMethods,
			Hours:          settings.Hours,
			DeliveryFees:   settings.DeliveryFees,
			IsOpen:         schedule.IsOpen(settings.Hours, s.now().In(s.location)),
		},
		Categories: categories,
		MenuItems:  items,
	}, nil
}

// GetSettings loads the settings aggregate with empty lists instead of nil ones.
func (s *storeService) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load store settings")
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}
	if settings == nil {
		s.logger.Warn().Msg("store settings not found")
		return nil, model.ErrStoreNotInitialised
	}

	normalizeSettings(settings)
	return settings, nil
}

// UpdateStore applies the non-nil fields of req. The store row is created
// when it does not exist yet.
func (s *storeService) UpdateStore(ctx context.Context, req *model.StoreUpdateRequest) (*model.Settings, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}
	if err := validateStoreUpdate(req); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load store settings")
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}
	if settings == nil {
		settings = &model.Settings{Store: model.Store{ID: model.DefaultStoreID}}
	}

	applyStoreUpdate(settings, req)

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		s.logger.Error().Err(err).Msg("failed to save store settings")
		return nil, fmt.Errorf("failed to save store settings: %w", err)
	}

	s.logger.Info().Str("store", settings.Store.Name).Msg("store settings updated")

	normalizeSettings(settings)
	return settings, nil
}

// UpdateHours replaces the weekly hours.
func (s *storeService) UpdateHours(ctx context.Context, hours []model.StoreHour) (*model.Settings, error) {
	if hours == nil {
		return nil, model.NewValidationError("hours are required")
	}
	return s.UpdateStore(ctx, &model.StoreUpdateRequest{Hours: &hours})
}

func validateStoreUpdate(req *model.StoreUpdateRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return model.NewValidationError("store name cannot be empty")
	}

	if req.Hours != nil {
		if err := schedule.Validate(*req.Hours); err != nil {
			return model.NewDomainError(model.ErrCodeInvalidField, err.Error())
		}
	}

	if req.PaymentMethods != nil {
		seen := make(map[string]bool, len(*req.PaymentMethods))
		for i, m := range *req.PaymentMethods {
			name := strings.TrimSpace(m)
			switch {
			case name == "":
				return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("paymentMethods[%d] is empty", i))
			case seen[name]:
				return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("paymentMethods[%d]: duplicate payment method %q", i, name))
			}
			seen[name] = true
		}
	}

	if req.DeliveryFees != nil {
		seen := make(map[string]bool, len(*req.DeliveryFees))
		for i, f := range *req.DeliveryFees {
			switch {
			case strings.TrimSpace(f.Neighborhood) == "":
				return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("deliveryFees[%d]: neighborhood is required", i))
			case f.Fee < 0:
				return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("deliveryFees[%d]: fee cannot be negative", i))
			case seen[f.Neighborhood]:
				return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("deliveryFees[%d]: duplicate neighborhood %q", i, f.Neighborhood))
			}
			seen[f.Neighborhood] = true
		}
	}

	return nil
}

func applyStoreUpdate(settings *model.Settings, req *model.StoreUpdateRequest) {
	st := &settings.Store
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&st.Name, req.Name},
		{&st.Address, req.Address},
		{&st.City, req.City},
		{&st.State, req.State},
		{&st.Phone, req.Phone},
		{&st.WhatsApp, req.WhatsApp},
		{&st.Instagram, req.Instagram},
		{&st.About, req.About},
		{&st.PixKey, req.PixKey},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}

	if req.PaymentMethods != nil {
		methods := make([]string, len(*req.PaymentMethods))
		for i, m := range *req.PaymentMethods {
			methods[i] = strings.TrimSpace(m)
		}
		settings.PaymentMethods = methods
	}
	if req.Hours != nil {
		settings.Hours = *req.Hours
	}
	if req.DeliveryFees != nil {
		settings.DeliveryFees = *req.DeliveryFees
	}
}

func normalizeSettings(s *model.Settings) {
	if s.Hours == nil {
		s.Hours = []model.StoreHour{}
	}
	if s.PaymentMethods == nil {
		s.PaymentMethods = []string{}
	}
	if s.DeliveryFees == nil {
		s.DeliveryFees = []model.DeliveryFee{}
	}
}
