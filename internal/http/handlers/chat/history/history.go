// Package history реализует HTTP-обработчик истории переписки.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/persona-chat/internal/http/dto"
	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/http/response"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/models"
)

const msgInvalidCharacter = "invalid character_id"

// Response история сообщений.
type Response struct {
	Messages []dto.Message `json:"messages"`
}

// Service описывает чтение истории.
type Service interface {
	History(ctx context.Context, userID int64, characterID *int) ([]models.Message, error)
}

// Handler обрабатывает запросы истории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История переписки
// @Description Сообщения пользователя по возрастанию времени, при указании character_id только с этим персонажем.
// @Tags Chat
// @Produce  json
// @Security BearerAuth
// @Param character_id query int false "Идентификатор персонажа"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный character_id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /chat/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	var characterID *int
	if raw := r.URL.Query().Get("character_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(msgInvalidCharacter))
			return
		}
		characterID = &id
	}

	msgs, err := h.service.History(r.Context(), userID, characterID)
	if err != nil {
		log.Error("failed to load history", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalError))
		return
	}

	render.JSON(w, r, Response{Messages: dto.FromMessages(msgs)})
}
