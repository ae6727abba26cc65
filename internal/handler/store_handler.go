package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/rs/zerolog"
)

// StoreHandler serves the storefront snapshot and store settings.
type StoreHandler struct {
	service service.StoreService
	logger  zerolog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(service service.StoreService, logger zerolog.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		logger:  logger.With().Str("handler", "store").Logger(),
	}
}

// Storefront handles GET /api/data.
func (h *StoreHandler) Storefront(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Storefront(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetSettings handles GET /api/store.
func (h *StoreHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update handles PATCH /api/store.
func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.StoreUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	settings, err := h.service.UpdateStore(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateHours handles PATCH /api/store/hours. The body is either
// {"hours": [...]} or the bare array.
func (h *StoreHandler) UpdateHours(w http.ResponseWriter, r *http.Request) {
	hours, err := decodeHours(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	settings, err := h.service.UpdateHours(r.Context(), hours)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, settings.Hours)
}

func decodeHours(r *http.Request) ([]model.StoreHour, error) {
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var hours []model.StoreHour
		if err := json.Unmarshal(trimmed, &hours); err != nil {
			return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid hours array")
		}
		return hours, nil
	}

	var body struct {
		Hours []model.StoreHour `json:"hours"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid hours body")
	}
	return body.Hours, nil
}
