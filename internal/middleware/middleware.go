package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cardapio/internal/model"

	"github.com/rs/zerolog"
)

// AdminPasswordHeader carries the shared admin password on admin requests.
const AdminPasswordHeader = "X-Admin-Password"

// PasswordVerifier checks the shared admin password.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, password string) (bool, error)
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+AdminPasswordHeader)

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminAuth rejects requests whose X-Admin-Password header is not the
// current admin password. Every rejection carries the same message.
func AdminAuth(verifier PasswordVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			password := r.Header.Get(AdminPasswordHeader)
			if password == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing admin password")
				writeError(w, http.StatusUnauthorized, model.ErrInvalidPassword)
				return
			}

			ok, err := verifier.VerifyPassword(r.Context(), password)
			if err != nil {
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to verify admin password")
				writeError(w, http.StatusInternalServerError, model.NewDomainError(model.ErrCodeInternalError, "internal server error"))
				return
			}
			if !ok {
				logger.Warn().Str("path", r.URL.Path).Msg("invalid admin password")
				writeError(w, http.StatusUnauthorized, model.ErrInvalidPassword)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			event := logger.Info()
			if rw.statusCode >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Int("bytes", rw.written).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					writeError(w, http.StatusInternalServerError, model.NewDomainError(model.ErrCodeInternalError, "internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

func writeError(w http.ResponseWriter, status int, de *model.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: de.Code, Message: de.Message})
}
