// Package send реализует HTTP-обработчик отправки сообщения персонажу.
//
// Перед обращением к модели проверяется подписка; при отказе возвращается 403
// с кодом NO_SUBSCRIPTION или NO_ACCESS, и ничего не сохраняется.
package send

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/http/response"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	"github.com/magabrotheeeer/persona-chat/internal/services/chat"
	"github.com/magabrotheeeer/persona-chat/internal/services/responder"
)

const (
	msgRequired       = "characterId и message обязательны"
	msgNoSubscription = "Требуется активная подписка"
	msgNoAccess       = "Нет доступа к этому персонажу"
	msgModelsFailed   = "Не удалось получить ответ, попробуйте позже"
)

// Request сообщение пользователя.
type Request struct {
	CharacterID int    `json:"characterId" example:"2"`
	Message     string `json:"message" example:"Привет! Как прошёл день?"`
}

// Response ответ персонажа.
type Response struct {
	Response  string `json:"response" example:"Привет! Отлично, а у тебя?"`
	MessageID int64  `json:"messageId" example:"102"`
	Model     string `json:"model" example:"meta-llama/llama-3.3-70b-instruct"`
}

// Service описывает отправку сообщения.
type Service interface {
	Send(ctx context.Context, userID int64, characterID int, text string) (*models.ChatReply, error)
}

// Handler обрабатывает отправку сообщений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отправить сообщение персонажу
// @Description Сохраняет сообщение, получает ответ модели и сохраняет его. Требуется действующая подписка.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Персонаж и текст"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Не указан персонаж или текст"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет подписки или доступа (code: NO_SUBSCRIPTION | NO_ACCESS)"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Модели недоступны или ошибка сервера"
// @Router /chat/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.send"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgRequired))
		return
	}
	text := strings.TrimSpace(req.Message)
	if req.CharacterID <= 0 || text == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgRequired))
		return
	}

	reply, err := h.service.Send(r.Context(), userID, req.CharacterID, text)
	if err != nil {
		var denied *chat.AccessDeniedError
		if errors.As(err, &denied) {
			msg := msgNoSubscription
			if denied.Code == chat.CodeNoAccess {
				msg = msgNoAccess
			}
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.ErrorWithCode(msg, denied.Code))
			return
		}
		log.Error("failed to send message", sl.Err(err))
		msg := response.MsgInternalError
		if errors.Is(err, responder.ErrAllModelsFailed) {
			msg = msgModelsFailed
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, Response{Response: reply.Text, MessageID: reply.MessageID, Model: reply.Model})
}
