// Package trackauth предоставляет маршруты сервиса аутентификации.
package trackauth

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/track-auth/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/user/changepassword"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/track-auth/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/track-auth/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/track-auth/internal/services/auth"
	resetservice "github.com/magabrotheeeer/track-auth/internal/services/passwordreset"
	userservice "github.com/magabrotheeeer/track-auth/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	resetService *resetservice.ResetService,
	userService *userservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/forgot-password", forgotpassword.New(logger, resetService).ServeHTTP)
		r.Post("/reset-password", resetpassword.New(logger, resetService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Post("/change-password", changepassword.New(logger, userService).ServeHTTP)
			r.Get("/users/me", me.New(logger, userService).ServeHTTP)
			r.Put("/users/me", update.New(logger, userService).ServeHTTP)
			r.Get("/users", list.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
