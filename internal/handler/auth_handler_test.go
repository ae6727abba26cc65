package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardapio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		password       string
		mockError      error
		expectedStatus int
		expectedBody   string
		expectService  bool
	}{
		{
			name:           "Correct password",
			body:           `{"password":"admin123"}`,
			password:       "admin123",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ok":true}`,
			expectService:  true,
		},
		{
			name:           "Wrong password",
			body:           `{"password":"nope"}`,
			password:       "nope",
			mockError:      model.ErrInvalidPassword,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"UNAUTHORIZED","message":"incorrect password"}`,
			expectService:  true,
		},
		{
			name:           "Store lookup fails",
			body:           `{"password":"admin123"}`,
			password:       "admin123",
			mockError:      errors.New("timeout"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `password=admin123`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("Login", mock.Anything, tt.password).Return(tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", encodeBody(t, tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Status(t *testing.T) {
	for _, usingDefault := range []bool{true, false} {
		mockService := new(MockAuthService)
		mockService.On("UsingDefaultPassword", mock.Anything).Return(usingDefault)
		handler := NewAuthHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/admin/auth-status", nil)
		w := httptest.NewRecorder()

		handler.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		if usingDefault {
			assert.JSONEq(t, `{"usingDefaultPassword":true}`, w.Body.String())
		} else {
			assert.JSONEq(t, `{"usingDefaultPassword":false}`, w.Body.String())
		}
		mockService.AssertExpectations(t)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"currentPassword":"admin123","newPassword":"s3nha-nova"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Current password wrong",
			body:           `{"currentPassword":"x","newPassword":"s3nha-nova"}`,
			mockError:      model.ErrInvalidPassword,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing new password",
			body:           `{"currentPassword":"admin123"}`,
			mockError:      model.NewValidationError("currentPassword and newPassword are required"),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			mockService.On("ChangePassword", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
				Return(tt.mockError)
			handler := NewAuthHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/admin/change-password", encodeBody(t, tt.body))
			w := httptest.NewRecorder()

			handler.ChangePassword(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
