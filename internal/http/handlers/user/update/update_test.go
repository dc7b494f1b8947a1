package update

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/track-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/track-auth/internal/models"
	"github.com/magabrotheeeer/track-auth/internal/storage/repository"
)

// Мок сервиса с методом UpdateCurrentUser
type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) UpdateCurrentUser(ctx context.Context, email, name string, enabled bool) (*models.UserView, error) {
	args := m.Called(ctx, email, name, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserView), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func boolPtr(b bool) *bool { return &b }

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	updatedView := &models.UserView{
		UID:   "user-uid-1",
		Name:  "New Name",
		Email: "user1@example.com",
		Role:  "user",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		withEmail      bool
		mockView       *models.UserView
		mockErr        error
		callMock       bool
		wantStatusCode int
		wantData       map[string]any
		wantError      string
	}{
		{
			name: "successful update",
			requestBody: Request{
				Name:    "New Name",
				Enabled: boolPtr(true),
			},
			withEmail:      true,
			mockView:       updatedView,
			callMock:       true,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"id":   "user-uid-1",
				"name": "New Name",
			},
		},
		{
			name: "missing identity in context",
			requestBody: Request{
				Name:    "New Name",
				Enabled: boolPtr(true),
			},
			withEmail:      false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withEmail:      true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name: "validation error - missing enabled",
			requestBody: Request{
				Name: "New Name",
			},
			withEmail:      true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Enabled is a required field",
		},
		{
			name: "user not found",
			requestBody: Request{
				Name:    "New Name",
				Enabled: boolPtr(false),
			},
			withEmail:      true,
			mockErr:        repository.ErrUserNotFound,
			callMock:       true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userMock := new(UserServiceMock)
			handler := New(newNoopLogger(), userMock)

			if tt.callMock {
				userMock.On("UpdateCurrentUser", mock.Anything, "user1@example.com",
					mock.Anything, mock.Anything).Return(tt.mockView, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withEmail {
				ctx = context.WithValue(ctx, middlewarectx.Email, "user1@example.com")
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			}

			userMock.AssertExpectations(t)
		})
	}
}
