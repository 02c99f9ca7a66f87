// Package verify реализует HTTP-обработчик проверки токена доступа.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/http/response"
	"github.com/magabrotheeeer/persona-chat/internal/lib/jwt"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	authservice "github.com/magabrotheeeer/persona-chat/internal/services/auth"
)

const (
	msgTokenMissing = "Токен не найден"
	msgUserNotFound = "Пользователь не найден"
)

// Response ответ с данными пользователя.
type Response struct {
	User models.UserSummary `json:"user"`
}

// Service описывает проверку токена.
type Service interface {
	Verify(ctx context.Context, token string) (*models.UserSummary, error)
}

// Handler обрабатывает запросы на проверку токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверка токена
// @Description Возвращает пользователя, которому выдан токен.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует, недействителен или пользователь удалён"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /verify [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.BearerToken(r)
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(msgTokenMissing))
		return
	}

	user, err := h.service.Verify(r.Context(), token)
	switch {
	case errors.Is(err, jwt.ErrInvalidToken):
		log.Info("token rejected", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgInvalidToken))
		return
	case errors.Is(err, authservice.ErrUserNotFound):
		log.Info("token owner not found")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(msgUserNotFound))
		return
	case err != nil:
		log.Error("verify failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalError))
		return
	}

	render.JSON(w, r, Response{User: *user})
}
