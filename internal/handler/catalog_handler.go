package handler

import (
	"net/http"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles category and menu item requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory handles PATCH /api/categories/{id}.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ReorderCategories handles PATCH /api/categories/reorder.
func (h *CatalogHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req model.ReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	categories, err := h.service.ReorderCategories(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// ListMenu handles GET /api/menu.
func (h *CatalogHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMenu(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateMenuItem handles POST /api/menu.
func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req model.MenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	item, err := h.service.CreateMenuItem(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateMenuItem handles PATCH /api/menu/{id}.
func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req model.MenuItemUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /api/menu/{id}.
func (h *CatalogHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMenuItem(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
