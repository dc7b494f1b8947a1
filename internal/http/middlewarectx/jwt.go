// Package middlewarectx содержит HTTP middleware для проверки bearer-токенов.
//
// JWTMiddleware разбирает заголовок Authorization, валидирует токен через
// сервис аутентификации и кладет в контекст запроса email, роль и uid
// действующего пользователя. Обработчики ниже по цепочке получают
// идентичность только из контекста, не обращаясь к токену повторно.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/track-auth/internal/http/response"
	"github.com/magabrotheeeer/track-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Email — ключ для email действующего пользователя в контексте.
	Email Key = "email"
	// Role — ключ для роли пользователя в контексте.
	Role Key = "role"
	// UserUID — ключ для uid пользователя в контексте.
	UserUID Key = "user_uid"
)

// Service описывает интерфейс сервиса для валидации bearer-токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware проверяет Authorization: Bearer <token> и наполняет контекст
// данными пользователя. При любой ошибке проверки возвращает 401.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reqLog.Error("authorization header missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization header missing"))
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				reqLog.Error("invalid authorization header format")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid authorization header format"))
				return
			}

			claims, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				reqLog.Error("token validation failed", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), Email, claims.Email)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext извлекает email действующего пользователя из контекста.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(Email).(string)
	return email, ok && email != ""
}
