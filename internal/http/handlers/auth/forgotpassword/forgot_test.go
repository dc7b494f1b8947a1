package forgotpassword

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/track-auth/internal/storage/repository"
)

// Мок сервиса с методом CreateToken
type ResetServiceMock struct {
	mock.Mock
}

func (m *ResetServiceMock) CreateToken(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestForgotPasswordHandler_ServeHTTP(t *testing.T) {
	genericMessage := "if the email is registered, a reset link has been sent"

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		callMock       bool
		wantStatusCode int
		wantMessage    string
		wantError      string
		wantStatus     string
	}{
		{
			name:           "known email",
			requestBody:    Request{Email: "user1@example.com"},
			callMock:       true,
			wantStatusCode: http.StatusOK,
			wantMessage:    genericMessage,
			wantStatus:     "OK",
		},
		{
			name:           "unknown email gets the same answer",
			requestBody:    Request{Email: "ghost@example.com"},
			mockErr:        fmt.Errorf("passwordreset.CreateToken: %w", repository.ErrUserNotFound),
			callMock:       true,
			wantStatusCode: http.StatusOK,
			wantMessage:    genericMessage,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing email",
			requestBody:    Request{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			requestBody:    Request{Email: "user1@example.com"},
			mockErr:        errors.New("db error"),
			callMock:       true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal service error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetMock := new(ResetServiceMock)
			handler := New(newNoopLogger(), resetMock)

			if tt.callMock {
				resetMock.On("CreateToken", mock.Anything, mock.Anything).
					Return(tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/forgot-password", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantMessage != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMessage, data["message"])
			}

			resetMock.AssertExpectations(t)
		})
	}
}
