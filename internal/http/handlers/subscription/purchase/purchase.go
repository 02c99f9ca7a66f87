// Package purchase реализует HTTP-обработчик покупки подписки.
//
// Новая подписка действует сутки и заменяет прежнюю действующую подписку пользователя.
package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/persona-chat/internal/http/dto"
	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/http/response"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	subservice "github.com/magabrotheeeer/persona-chat/internal/services/subscription"
)

const (
	msgInvalidPlan       = "Неверный тип тарифа"
	msgCharacterRequired = `Для тарифа "Одна девушка" нужно указать character_id`
	msgUnknownCharacter  = "Персонаж не найден"
)

// Request входные данные для покупки.
type Request struct {
	PlanType    models.PlanType `json:"plan_type" example:"single"`
	CharacterID *int            `json:"character_id,omitempty" example:"2"`
}

// Service описывает покупку подписки.
type Service interface {
	Purchase(ctx context.Context, userID int64, plan models.PlanType, characterID *int) (*models.PurchaseResult, error)
}

// Handler обрабатывает запросы на покупку подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Купить подписку
// @Description Оформляет подписку на 24 часа: single на одного персонажа (990) или all на всех (1490).
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тариф и персонаж"
// @Success 200 {object} dto.SubscriptionEnvelope
// @Failure 400 {object} response.ErrorResponse "Неверный тариф, не указан или не найден персонаж"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"
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
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	res, err := h.service.Purchase(r.Context(), userID, req.PlanType, req.CharacterID)
	switch {
	case errors.Is(err, subservice.ErrInvalidPlan):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgInvalidPlan))
		return
	case errors.Is(err, subservice.ErrCharacterRequired):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgCharacterRequired))
		return
	case errors.Is(err, subservice.ErrUnknownCharacter):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgUnknownCharacter))
		return
	case err != nil:
		log.Error("failed to purchase subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalError))
		return
	}

	view := dto.FromSubscription(&res.Subscription)
	view.Price = &res.Price
	render.JSON(w, r, dto.SubscriptionEnvelope{Subscription: view})
}
