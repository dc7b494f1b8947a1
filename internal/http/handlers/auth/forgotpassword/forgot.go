// Package forgotpassword реализует HTTP-обработчик запроса восстановления пароля.
//
// Ответ одинаков для известных и неизвестных email: перечисление
// зарегистрированных адресов по ответам сервиса невозможно.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/track-auth/internal/http/response"
	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
	"github.com/magabrotheeeer/track-auth/internal/storage/repository"
)

// Request — входные данные запроса восстановления пароля.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает интерфейс выпуска токенов восстановления.
type Service interface {
	CreateToken(ctx context.Context, email string) error
}

// Handler обрабатывает HTTP-запросы восстановления пароля.
type Handler struct {
	log          *slog.Logger
	resetService Service
	validate     *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, resetService Service) *Handler {
	return &Handler{
		log:          log,
		resetService: resetService,
		validate:     validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запрос восстановления пароля
// @Description Выпускает токен восстановления и отправляет письмо. Ответ не раскрывает, зарегистрирован ли email.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email учетной записи"
// @Success 200 {object} response.Response "Запрос принят"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.resetService.CreateToken(r.Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Неизвестный email получает тот же ответ, что и известный.
			log.Info("reset requested for unknown email")
		} else {
			log.Error("failed to create reset token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
			return
		}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "if the email is registered, a reset link has been sent",
	}))
}
