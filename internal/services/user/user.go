// Package user содержит бизнес-логику операций над текущим пользователем:
// чтение и обновление профиля, смену пароля, список пользователей.
//
// Идентичность действующего пользователя передается явно (email,
// извлеченный из проверенного bearer-токена на границе запроса),
// а не читается из глобального состояния.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/track-auth/internal/lib/password"
	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
	"github.com/magabrotheeeer/track-auth/internal/models"
)

// ErrSamePassword возвращается, когда новый пароль совпадает с текущим.
var ErrSamePassword = errors.New("new password cannot be same as old password")

// ErrInvalidOldPassword возвращается при несовпадении старого пароля.
var ErrInvalidOldPassword = errors.New("old password is incorrect")

const profileCacheTTL = 5 * time.Minute

// Repository описывает контракт хранилища для операций над пользователями.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserProfile(ctx context.Context, email, name string, enabled bool) error
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
}

// Cache описывает контракт кеша публичных представлений пользователей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над учетной записью пользователя.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

func profileKey(email string) string {
	return "user:" + email
}

// GetCurrentUser возвращает публичное представление пользователя по его email.
// Представление кешируется с коротким TTL; ошибки кеша не фатальны.
func (s *Service) GetCurrentUser(ctx context.Context, email string) (*models.UserView, error) {
	const op = "user.GetCurrentUser"

	var cached models.UserView
	hit, err := s.cache.Get(profileKey(email), &cached)
	if err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	}
	if hit {
		return &cached, nil
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view := u.View()
	if err := s.cache.Set(profileKey(email), view, profileCacheTTL); err != nil {
		s.log.Warn("cache write failed", sl.Err(err))
	}
	return &view, nil
}

// UpdateCurrentUser обновляет имя и признак активности пользователя
// и возвращает обновленное представление. Кеш профиля инвалидируется.
func (s *Service) UpdateCurrentUser(ctx context.Context, email, name string, enabled bool) (*models.UserView, error) {
	const op = "user.UpdateCurrentUser"

	if err := s.repo.UpdateUserProfile(ctx, email, name, enabled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(profileKey(email)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view := u.View()
	return &view, nil
}

// ListUsers возвращает публичные представления всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserView, error) {
	const op = "user.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// ChangePassword меняет пароль действующего пользователя.
//
// Старый пароль обязан совпадать с текущим хэшем, иначе
// ErrInvalidOldPassword; новый пароль, совпадающий с текущим,
// отклоняется с ErrSamePassword без изменения хранимого хэша.
func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	const op = "user.ChangePassword"

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(u.PasswordHash, oldPassword); err != nil {
		return ErrInvalidOldPassword
	}
	if err := password.CompareHash(u.PasswordHash, newPassword); err == nil {
		return ErrSamePassword
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateUserPassword(ctx, u.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(profileKey(email)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
	return nil
}
