// Package passwordreset реализует жизненный цикл токенов восстановления
// пароля: выпуск с вытеснением прежнего токена, проверку срока действия,
// одноразовое использование и ленивую очистку истекших токенов.
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/track-auth/internal/lib/password"
	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
	"github.com/magabrotheeeer/track-auth/internal/models"
	"github.com/magabrotheeeer/track-auth/internal/services/notify"
	"github.com/magabrotheeeer/track-auth/internal/storage/repository"
)

// Ошибки жизненного цикла токена восстановления.
var (
	// ErrInvalidToken возвращается для неизвестного токена: несуществующего,
	// уже использованного или вытесненного более новым.
	ErrInvalidToken = errors.New("invalid password reset token")
	// ErrTokenExpired возвращается для токена с истекшим сроком действия.
	ErrTokenExpired = errors.New("token has expired, request a new one")
)

// TokenRepository описывает контракт хранилища для токенов восстановления.
type TokenRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ReplaceResetToken атомарно заменяет активный токен пользователя новым.
	ReplaceResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) error

	GetResetToken(ctx context.Context, token string) (*models.ResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error

	// ConsumeResetToken атомарно меняет пароль пользователя и удаляет токен.
	ConsumeResetToken(ctx context.Context, token, userUID, passwordHash string) error
}

// ResetService управляет токенами восстановления пароля.
type ResetService struct {
	repo     TokenRepository
	notifier notify.Notifier
	log      *slog.Logger
	tokenTTL time.Duration
	now      func() time.Time
}

// NewResetService создает новый экземпляр ResetService с указанным TTL токена.
func NewResetService(repo TokenRepository, notifier notify.Notifier, log *slog.Logger, tokenTTL time.Duration) *ResetService {
	return &ResetService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// CreateToken выпускает токен восстановления для пользователя с указанным
// email и ставит в очередь письмо со ссылкой восстановления. Прежний
// активный токен пользователя при этом вытесняется. Возвращает
// repository.ErrUserNotFound для неизвестного email; значение токена
// вызывающей стороне не раскрывается.
func (s *ResetService) CreateToken(ctx context.Context, email string) error {
	const op = "passwordreset.CreateToken"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token := uuid.NewString()
	expiresAt := s.now().Add(s.tokenTTL)

	if err := s.repo.ReplaceResetToken(ctx, user.UID, token, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.SendReset(user.Email, token)
	s.log.Info("reset token issued", slog.String("user_uid", user.UID))

	return nil
}

// ResetPassword обменивает действительный токен на установку нового пароля.
//
// Неизвестный токен — ErrInvalidToken, удалять нечего. Истекший токен
// удаляется при обращении и возвращается ErrTokenExpired: повторная попытка
// с тем же токеном уже получит ErrInvalidToken. Успешный сброс перехеширует
// пароль, сохранит его и удалит токен в одной транзакции — токен одноразовый.
// Проверка срока действия всегда предшествует любой мутации.
func (s *ResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "passwordreset.ResetPassword"

	resetToken, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if resetToken.Expired(s.now()) {
		if err := s.repo.DeleteResetToken(ctx, token); err != nil {
			s.log.Error("failed to delete expired reset token", sl.Err(err))
		}
		return ErrTokenExpired
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.ConsumeResetToken(ctx, token, resetToken.UserUID, hashed); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password reset completed", slog.String("user_uid", resetToken.UserUID))
	return nil
}
