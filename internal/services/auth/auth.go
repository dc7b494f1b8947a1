// Package auth содержит бизнес-логику регистрации, входа и проверки
// bearer-токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/track-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/track-auth/internal/lib/password"
	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
	"github.com/magabrotheeeer/track-auth/internal/models"
	"github.com/magabrotheeeer/track-auth/internal/services/notify"
	"github.com/magabrotheeeer/track-auth/internal/storage/repository"
)

// Ошибки уровня бизнес-логики аутентификации.
var (
	// ErrEmailExists возвращается при попытке регистрации на занятый email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials возвращается при неудачном входе. Несуществующий
	// email и неверный пароль неразличимы для вызывающей стороны.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	// Возвращает repository.ErrEmailTaken при занятом email.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email
	// или repository.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, вход и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier notify.Notifier
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier notify.Notifier, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: notifier,
		log:      log,
	}
}

// Register создает нового пользователя: хэширует пароль, присваивает роль
// (по умолчанию user), включает учетную запись и ставит в очередь
// приветственное письмо. Возвращает публичное представление без хэша.
//
// Уникальность email обеспечивает хранилище: при конкурентной регистрации
// одного email ровно один запрос завершается успехом.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, role string) (*models.UserView, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		Enabled:      true,
	}

	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	s.notifier.SendWelcome(user.Email, user.Name)

	view := user.View()
	return &view, nil
}

// Login проверяет пароль пользователя и выпускает bearer-токен, привязанный
// к его email. Для несуществующего email и неверного пароля возвращается
// одна и та же ошибка ErrInvalidCredentials. После успешного входа
// в очередь ставится письмо вернувшемуся пользователю с его отображаемым
// именем; сбой отправки не влияет на результат входа.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.SendReturningOffer(user.Email, user.Name)

	return token, nil
}

// ValidateToken проверяет JWT и возвращает claims с данными пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		s.log.Debug("token validation failed", sl.Err(err))
		return nil, err
	}
	return claims, nil
}
