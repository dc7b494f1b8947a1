package user_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/track-auth/internal/lib/password"
	"github.com/magabrotheeeer/track-auth/internal/models"
	"github.com/magabrotheeeer/track-auth/internal/services/user"
	"github.com/magabrotheeeer/track-auth/internal/storage/repository"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUserProfile(ctx context.Context, email, name string, enabled bool) error {
	args := m.Called(ctx, email, name, enabled)
	return args.Error(0)
}

func (m *RepoMock) UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		if view, ok := args.Get(2).(*models.UserView); ok {
			*(result.(*models.UserView)) = *view
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_GetCurrentUser_CacheMiss(t *testing.T) {
	testUser := &models.User{
		UID:     "user-uid-1",
		Name:    "Test User",
		Email:   "test@example.com",
		Role:    "user",
		Enabled: true,
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := user.New(repo, cache, newNoopLogger())

	cache.On("Get", "user:test@example.com", mock.Anything).Return(false, nil, nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
	cache.On("Set", "user:test@example.com", testUser.View(), 5*time.Minute).Return(nil).Once()

	view, err := svc.GetCurrentUser(context.Background(), "test@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "user-uid-1", view.UID)
	assert.Equal(t, "test@example.com", view.Email)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_GetCurrentUser_CacheHit(t *testing.T) {
	cachedView := &models.UserView{
		UID:   "user-uid-1",
		Name:  "Cached User",
		Email: "test@example.com",
		Role:  "user",
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := user.New(repo, cache, newNoopLogger())

	cache.On("Get", "user:test@example.com", mock.Anything).Return(true, nil, cachedView).Once()

	view, err := svc.GetCurrentUser(context.Background(), "test@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Cached User", view.Name)

	repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestService_GetCurrentUser_NotFound(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := user.New(repo, cache, newNoopLogger())

	cache.On("Get", "user:ghost@example.com", mock.Anything).Return(false, nil, nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound).Once()

	view, err := svc.GetCurrentUser(context.Background(), "ghost@example.com")
	assert.Nil(t, view)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestService_UpdateCurrentUser(t *testing.T) {
	updatedUser := &models.User{
		UID:     "user-uid-1",
		Name:    "New Name",
		Email:   "test@example.com",
		Role:    "user",
		Enabled: false,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
		wantName   string
	}{
		{
			name: "successful update",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateUserProfile", mock.Anything, "test@example.com", "New Name", false).
					Return(nil).Once()
				c.On("Invalidate", "user:test@example.com").Return(nil).Once()
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(updatedUser, nil).Once()
			},
			wantName: "New Name",
		},
		{
			name: "user not found",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateUserProfile", mock.Anything, "test@example.com", "New Name", false).
					Return(repository.ErrUserNotFound).Once()
			},
			wantErr: repository.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := user.New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			view, err := svc.UpdateCurrentUser(context.Background(), "test@example.com", "New Name", false)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, view)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantName, view.Name)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_ListUsers(t *testing.T) {
	users := []*models.User{
		{UID: "uid-1", Name: "First", Email: "first@example.com", Role: "user"},
		{UID: "uid-2", Name: "Second", Email: "second@example.com", Role: "admin"},
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := user.New(repo, cache, newNoopLogger())

	repo.On("ListUsers", mock.Anything).Return(users, nil).Once()

	views, err := svc.ListUsers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "first@example.com", views[0].Email)
	assert.Equal(t, "admin", views[1].Role)

	repo.AssertExpectations(t)
}

func TestService_ChangePassword(t *testing.T) {
	oldPassword := "oldpassword123"
	hashedOld, err := password.GetHash(oldPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testUser := &models.User{
		UID:          "user-uid-1",
		Email:        "test@example.com",
		PasswordHash: hashedOld,
	}

	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		setupMocks  func(r *RepoMock, c *CacheMock)
		wantErr     error
	}{
		{
			name:        "successful change",
			oldPassword: oldPassword,
			newPassword: "brandnewpassword",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(testUser, nil).Once()
				r.On("UpdateUserPassword", mock.Anything, "user-uid-1",
					mock.MatchedBy(func(hash string) bool {
						return password.CompareHash(hash, "brandnewpassword") == nil
					})).Return(nil).Once()
				c.On("Invalidate", "user:test@example.com").Return(nil).Once()
			},
		},
		{
			name:        "wrong old password",
			oldPassword: "wrongpassword",
			newPassword: "brandnewpassword",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(testUser, nil).Once()
			},
			wantErr: user.ErrInvalidOldPassword,
		},
		{
			name:        "new password same as old",
			oldPassword: oldPassword,
			newPassword: oldPassword,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(testUser, nil).Once()
			},
			wantErr: user.ErrSamePassword,
		},
		{
			name:        "storage error on update",
			oldPassword: oldPassword,
			newPassword: "brandnewpassword",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(testUser, nil).Once()
				r.On("UpdateUserPassword", mock.Anything, "user-uid-1", mock.Anything).
					Return(errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := user.New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			err := svc.ChangePassword(context.Background(), "test@example.com", tt.oldPassword, tt.newPassword)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
