package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cardapio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoreFixture(now time.Time) (*storeService, *MockSettingsRepository, *MockCategoryRepository, *MockMenuRepository) {
	settings := new(MockSettingsRepository)
	categories := new(MockCategoryRepository)
	menu := new(MockMenuRepository)
	svc := NewStoreService(settings, categories, menu, fortaleza, zerolog.Nop()).(*storeService)
	svc.now = func() time.Time { return now }
	return svc, settings, categories, menu
}

func weekHours() []model.StoreHour {
	return []model.StoreHour{
		{Day: "Quarta", Open: "15:00", Close: "20:00"},
		{Day: "Quinta", Open: "15:00", Close: "20:00", Closed: true},
	}
}

func TestStoreService_Storefront(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		now      time.Time
		wantOpen bool
	}{
		// Wednesday 18:30 UTC is 15:30 in Fortaleza.
		{name: "inside the window in store time", now: time.Date(2024, 6, 5, 18, 30, 0, 0, time.UTC), wantOpen: true},
		// Wednesday 17:30 UTC is 14:30 in Fortaleza.
		{name: "before opening", now: time.Date(2024, 6, 5, 17, 30, 0, 0, time.UTC), wantOpen: false},
		{name: "closed day", now: time.Date(2024, 6, 6, 19, 0, 0, 0, time.UTC), wantOpen: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, settings, categories, menu := newStoreFixture(tt.now)
			s := testSettings()
			s.Hours = weekHours()
			settings.On("Load", ctx).Return(s, nil)
			categories.On("List", ctx).Return([]model.Category{{ID: "bebidas"}}, nil)
			menu.On("List", ctx).Return(nil, nil)

			data, err := svc.Storefront(ctx)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOpen, data.Store.IsOpen)
			assert.Equal(t, "Rei dos Salgados", data.Store.Name)
			assert.Len(t, data.Categories, 1)
			assert.NotNil(t, data.MenuItems)
			assert.Len(t, data.Store.DeliveryFees, 2)
		})
	}
}

func TestStoreService_Storefront_NotInitialised(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newStoreFixture(time.Now())
	settings.On("Load", ctx).Return(nil, nil)

	_, err := svc.Storefront(ctx)

	assert.ErrorIs(t, err, model.ErrStoreNotInitialised)
}

func TestStoreService_UpdateStore(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newStoreFixture(time.Now())

	existing := testSettings()
	existing.Store.AdminPasswordHash = "hash"
	settings.On("Load", ctx).Return(existing, nil)
	settings.On("Save", ctx, mock.AnythingOfType("*model.Settings")).Return(nil)

	methods := []string{" PIX ", "Cartao"}
	got, err := svc.UpdateStore(ctx, &model.StoreUpdateRequest{
		Name:           strPtr("  Novo Nome "),
		PaymentMethods: &methods,
	})

	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", got.Store.Name)
	assert.Equal(t, "5584921511524", got.Store.WhatsApp, "untouched fields keep their value")
	assert.Equal(t, []string{"PIX", "Cartao"}, got.PaymentMethods)
	assert.Equal(t, existing.DeliveryFees, got.DeliveryFees)
	assert.NotNil(t, got.Hours)
	settings.AssertExpectations(t)
}

func TestStoreService_UpdateStore_CreatesMissingStore(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newStoreFixture(time.Now())
	settings.On("Load", ctx).Return(nil, nil)
	settings.On("Save", ctx, mock.MatchedBy(func(s *model.Settings) bool {
		return s.Store.ID == model.DefaultStoreID && s.Store.Name == "Loja"
	})).Return(nil)

	_, err := svc.UpdateStore(ctx, &model.StoreUpdateRequest{Name: strPtr("Loja")})

	require.NoError(t, err)
	settings.AssertExpectations(t)
}

func TestStoreService_UpdateStore_Invalid(t *testing.T) {
	ctx := context.Background()
	badHours := []model.StoreHour{{Day: "Segunda", Open: "25:00", Close: "20:00"}}
	dupHours := []model.StoreHour{{Day: "Segunda", Open: "08:00", Close: "20:00"}, {Day: "Segunda", Open: "08:00", Close: "20:00"}}
	negFee := []model.DeliveryFee{{Neighborhood: "Centro", Fee: -1}}
	dupFee := []model.DeliveryFee{{Neighborhood: "Centro", Fee: 1}, {Neighborhood: "Centro", Fee: 2}}
	blankMethod := []string{"PIX", " "}
	dupMethod := []string{"PIX", " PIX "}

	tests := []struct {
		name string
		req  *model.StoreUpdateRequest
	}{
		{name: "nil request", req: nil},
		{name: "blank name", req: &model.StoreUpdateRequest{Name: strPtr("  ")}},
		{name: "bad clock", req: &model.StoreUpdateRequest{Hours: &badHours}},
		{name: "duplicate day", req: &model.StoreUpdateRequest{Hours: &dupHours}},
		{name: "negative fee", req: &model.StoreUpdateRequest{DeliveryFees: &negFee}},
		{name: "duplicate neighborhood", req: &model.StoreUpdateRequest{DeliveryFees: &dupFee}},
		{name: "blank payment method", req: &model.StoreUpdateRequest{PaymentMethods: &blankMethod}},
		{name: "duplicate payment method", req: &model.StoreUpdateRequest{PaymentMethods: &dupMethod}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, settings, _, _ := newStoreFixture(time.Now())

			_, err := svc.UpdateStore(ctx, tt.req)

			var de *model.DomainError
			require.ErrorAs(t, err, &de)
			settings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestStoreService_UpdateHours(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newStoreFixture(time.Now())
	settings.On("Load", ctx).Return(testSettings(), nil)
	settings.On("Save", ctx, mock.AnythingOfType("*model.Settings")).Return(nil)

	got, err := svc.UpdateHours(ctx, weekHours())

	require.NoError(t, err)
	assert.Equal(t, weekHours(), got.Hours)

	_, err = svc.UpdateHours(ctx, nil)
	assert.Error(t, err)
}

func TestStoreService_GetSettings_Error(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newStoreFixture(time.Now())
	settings.On("Load", ctx).Return(nil, errors.New("connection refused"))

	_, err := svc.GetSettings(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load store settings")
}
