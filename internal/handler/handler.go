package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cardapio/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors mean the client went away; the status is already sent.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a model.ErrorResponse with the given status, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to a response. Domain errors keep
// their code and message; anything else is logged and reported generically.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("unexpected service error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		})
		return
	}
	writeError(w, statusFor(de.Code), de.Code, de.Message, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeItemNotFound, model.ErrCodeCategoryNotFound, model.ErrCodeOrderNotFound,
		model.ErrCodeStoreNotInitialised:
		return http.StatusNotFound
	case model.ErrCodeCategoryExists, model.ErrCodeMenuItemExists, model.ErrCodeInvalidTransition:
		return http.StatusConflict
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is required")
		}
		return model.NewDomainError(model.ErrCodeInvalidJSON, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
