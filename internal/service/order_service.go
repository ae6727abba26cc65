package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cardapio/internal/cart"
	"cardapio/internal/model"
	"cardapio/internal/receipt"
	"cardapio/internal/repository"
	"cardapio/internal/whatsapp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultOrderPageSize = 50
	maxOrderPageSize     = 200
)

// OrderOptions configures store-specific order behaviour.
type OrderOptions struct {
	// Location is the store timezone used for the "hoje" window and receipts.
	Location *time.Location

	// Policy decides which status transitions are allowed.
	Policy model.TransitionPolicy

	// ReceiptWidth is the receipt line width in characters.
	ReceiptWidth int
}

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	menuRepo     repository.MenuRepository
	settingsRepo repository.SettingsRepository
	opts         OrderOptions
	now          func() time.Time
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	settingsRepo repository.SettingsRepository,
	opts OrderOptions,
	logger zerolog.Logger,
) OrderService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ReceiptWidth <= 0 {
		opts.ReceiptWidth = receipt.DefaultWidth
	}
	return &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		settingsRepo: settingsRepo,
		opts:         opts,
		now:          time.Now,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// Quote prices the cart. An unknown or empty neighborhood quotes no delivery fee.
func (s *orderService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, model.NewValidationError("order must contain at least one item")
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	fee, _ := cart.DeliveryFeeFor(settings.DeliveryFees, req.Neighborhood, req.Pickup)
	totals := c.Totals(fee)

	lines := c.Lines()
	resp := &model.QuoteResponse{
		Lines:       make([]model.QuoteLine, len(lines)),
		TotalItems:  c.TotalItems(),
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
	}
	for i, l := range lines {
		resp.Lines[i] = model.QuoteLine{
			Key:         l.Key(),
			ItemID:      l.ItemID,
			VariantID:   l.VariantID,
			Name:        l.Name,
			VariantName: l.VariantName,
			Price:       l.Price,
			Quantity:    l.Quantity,
			Amount:      l.Amount(),
		}
	}
	return resp, nil
}

// CreateOrder validates the request, prices it from the current menu and
// stores the order with its item snapshots.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	if len(settings.PaymentMethods) > 0 && !slices.Contains(settings.PaymentMethods, req.PaymentMethod) {
		return nil, model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("payment method %q is not accepted", req.PaymentMethod))
	}

	fee, ok := cart.DeliveryFeeFor(settings.DeliveryFees, req.Neighborhood, req.Pickup)
	if !ok {
		s.logger.Warn().Str("neighborhood", req.Neighborhood).Msg("no delivery fee for neighborhood")
		return nil, model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("delivery is not available for neighborhood %q", req.Neighborhood))
	}

	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	totals := c.Totals(fee)
	if totals.Total > model.MaxOrderAmount {
		return nil, model.ErrOrderTooLarge
	}

	if !matchesClientTotals(req, totals) {
		s.logger.Warn().
			Float64("subtotal", totals.Subtotal).
			Float64("delivery_fee", totals.DeliveryFee).
			Float64("total", totals.Total).
			Msg("client totals do not match menu prices")
		return nil, model.ErrPriceMismatch
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	order := &model.Order{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		PaymentMethod: req.PaymentMethod,
		Pickup:        req.Pickup,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		Status:        model.StatusReceived,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !req.Pickup {
		order.Address = strings.TrimSpace(req.Address)
		order.Neighborhood = req.Neighborhood
		order.Complement = trimmedOrNil(req.Complement)
	}
	if req.PaymentMethod == model.CashPaymentMethod {
		order.ChangeFor = trimmedOrNil(req.ChangeFor)
	}

	lines := c.Lines()
	order.Items = make([]model.OrderItem, len(lines))
	for i, l := range lines {
		order.Items[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ItemID:      l.ItemID,
			VariantID:   stringOrNil(l.VariantID),
			Name:        l.Name,
			VariantName: stringOrNil(l.VariantName),
			Price:       l.Price,
			Quantity:    l.Quantity,
		}
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Float64("total", order.Total).
		Bool("pickup", order.Pickup).
		Msg("order created successfully")

	resp := &model.OrderResponse{Order: order}
	if settings.Store.WhatsApp != "" {
		resp.WhatsAppURL = whatsapp.DeepLink(settings.Store.WhatsApp, whatsapp.BuildMessage(settings.Store.Name, order))
	}
	return resp, nil
}

// persist writes the order and its items in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// buildCart resolves each requested line against the menu.
func (s *orderService) buildCart(ctx context.Context, reqs []model.OrderItemRequest) (*cart.Cart, error) {
	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for i, r := range reqs {
		if r.ItemID == "" {
			return nil, model.NewValidationError(fmt.Sprintf("item %d: itemId is required", i))
		}
		if r.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("item_id", r.ItemID).
				Int("quantity", r.Quantity).
				Msg("invalid quantity")
			return nil, model.ErrInvalidQuantity
		}
		if r.Quantity > model.MaxItemQuantity {
			s.logger.Warn().
				Int("item_index", i).
				Str("item_id", r.ItemID).
				Int("quantity", r.Quantity).
				Msg("quantity above limit")
			return nil, model.ErrQuantityTooLarge
		}
		if !seen[r.ItemID] {
			seen[r.ItemID] = true
			ids = append(ids, r.ItemID)
		}
	}

	items, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to load menu items")
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	byID := make(map[string]model.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	c := cart.New()
	for _, r := range reqs {
		item, ok := byID[r.ItemID]
		if !ok {
			s.logger.Warn().Str("item_id", r.ItemID).Msg("menu item not found")
			return nil, model.ErrItemNotFound
		}
		if !item.Available {
			return nil, model.ErrItemUnavailable
		}

		var variant *model.MenuItemVariant
		switch {
		case item.HasVariants() && r.VariantID == "":
			return nil, model.ErrVariantRequired
		case item.HasVariants():
			variant = item.Variant(r.VariantID)
			if variant == nil {
				s.logger.Warn().Str("item_id", r.ItemID).Str("variant_id", r.VariantID).Msg("variant not found")
				return nil, model.ErrItemNotFound
			}
			if !variant.Available {
				return nil, model.ErrItemUnavailable
			}
		case r.VariantID != "":
			return nil, model.ErrItemNotFound
		}

		c.AddQuantity(item, variant, r.Quantity)
	}

	// Repeated lines merge, so the limit is checked again on the totals.
	for _, l := range c.Lines() {
		if l.Quantity > model.MaxItemQuantity {
			return nil, model.ErrQuantityTooLarge
		}
	}
	if c.Subtotal() > model.MaxOrderAmount {
		return nil, model.ErrOrderTooLarge
	}
	return c, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// List applies the admin filters. With Since set the page holds only orders
// created after it, oldest first, so consecutive polls never skip an order.
func (s *orderService) List(ctx context.Context, q model.OrderQuery) (*model.OrderListResponse, error) {
	filter := model.OrderFilter{Limit: q.Limit}

	if q.Status != "" && q.Status != string(model.DateWindowAll) {
		status, err := model.ParseOrderStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	now := s.now()
	switch q.Date {
	case "", model.DateWindowAll:
	case model.DateWindowToday:
		local := now.In(s.opts.Location)
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.opts.Location)
		filter.CreatedFrom = &midnight
	case model.DateWindowWeek:
		from := now.Add(-7 * 24 * time.Hour)
		filter.CreatedFrom = &from
	default:
		return nil, model.NewDomainError(model.ErrCodeInvalidField, "date must be one of hoje, semana, todos")
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultOrderPageSize
	}
	if filter.Limit > maxOrderPageSize {
		filter.Limit = maxOrderPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * filter.Limit

	if q.Since != nil {
		since := q.Since.UTC()
		filter.CreatedAfter = &since
		filter.OldestFirst = true
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	var cursor time.Time
	switch {
	case q.Since != nil:
		cursor = q.Since.UTC()
	case len(orders) == 0:
		cursor = now.UTC().Truncate(time.Microsecond)
	}
	for _, o := range orders {
		if o.CreatedAt.After(cursor) {
			cursor = o.CreatedAt.UTC()
		}
	}

	return &model.OrderListResponse{Orders: orders, Total: total, Cursor: cursor}, nil
}

// UpdateStatus moves an order to status under the configured transition policy.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.opts.Policy.Allows(current.Status, next) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(current.Status)).
			Str("to", string(next)).
			Msg("status transition rejected")
		return nil, model.ErrInvalidTransition
	}
	if current.Status == next {
		return current, nil
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, next)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Msg("order status updated")
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return model.ErrOrderNotFound
	}
	return nil
}

func (s *orderService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete orders")
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}
	return n, nil
}

// Receipt renders the order for a thermal printer. A missing store profile
// only leaves the store name out.
func (s *orderService) Receipt(ctx context.Context, id uuid.UUID, codepage string) ([]byte, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load store settings")
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}
	storeName := ""
	if settings != nil {
		storeName = settings.Store.Name
	}

	text := receipt.Render(order, receipt.Options{
		StoreName: storeName,
		Width:     s.opts.ReceiptWidth,
		Location:  s.opts.Location,
	})

	out, err := receipt.Encode(text, codepage)
	if err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidField, err.Error())
	}
	return out, nil
}

func (s *orderService) loadSettings(ctx context.Context) (*model.Settings, error) {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load store settings")
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}
	if settings == nil {
		return nil, model.ErrStoreNotInitialised
	}
	return settings, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("order request is required")
	}

	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "phone")
	}
	if req.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if !req.Pickup {
		if strings.TrimSpace(req.Address) == "" {
			missing = append(missing, "address")
		}
		if req.Neighborhood == "" {
			missing = append(missing, "neighborhood")
		}
	}
	if len(missing) > 0 {
		return model.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}
	return nil
}

// matchesClientTotals compares the amounts the client displayed, when sent.
func matchesClientTotals(req *model.OrderRequest, t cart.Totals) bool {
	for _, pair := range []struct {
		client *float64
		server float64
	}{
		{req.Subtotal, t.Subtotal},
		{req.DeliveryFee, t.DeliveryFee},
		{req.Total, t.Total},
	} {
		if pair.client != nil && !cart.SameAmount(*pair.client, pair.server) {
			return false
		}
	}
	return true
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return stringOrNil(strings.TrimSpace(*s))
}
