package handler

import (
	"net/http"
	"strconv"
	"time"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Quote handles POST /api/cart/quote.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/orders?status=&date=&since=&page=&limit=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseOrderQuery(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteAll handles DELETE /api/orders.
func (h *OrderHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

// Receipt handles GET /api/orders/{id}/receipt?codepage=.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	codepage := r.URL.Query().Get("codepage")
	out, err := h.service.Receipt(r.Context(), id, codepage)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	charset := "utf-8"
	if codepage != "" {
		charset = codepage
	}
	w.Header().Set("Content-Type", "text/plain; charset="+charset)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func parseOrderQuery(r *http.Request) (model.OrderQuery, error) {
	values := r.URL.Query()
	q := model.OrderQuery{
		Status: values.Get("status"),
		Date:   model.DateWindow(values.Get("date")),
	}

	var err error
	if q.Page, err = intParam(values.Get("page")); err != nil {
		return q, model.NewDomainError(model.ErrCodeInvalidField, "page must be a number")
	}
	if q.Limit, err = intParam(values.Get("limit")); err != nil {
		return q, model.NewDomainError(model.ErrCodeInvalidField, "limit must be a number")
	}

	if raw := values.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return q, model.NewDomainError(model.ErrCodeInvalidField, "since must be an RFC 3339 timestamp")
		}
		q.Since = &since
	}
	return q, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
