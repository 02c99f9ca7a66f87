// Package checkaccess реализует HTTP-обработчик проверки доступа к персонажу.
package checkaccess

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/http/response"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/models"
)

const msgCharacterRequired = "Требуется character_id"

// Request входные данные проверки.
type Request struct {
	CharacterID int `json:"character_id" validate:"required,gt=0" example:"2"`
}

// Response результат проверки доступа.
type Response struct {
	HasAccess bool                `json:"has_access" example:"false"`
	Reason    models.AccessReason `json:"reason,omitempty" example:"no_access"`
	PlanType  models.PlanType     `json:"plan_type,omitempty" example:"single"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
}

// Service описывает проверку доступа.
type Service interface {
	CheckAccess(ctx context.Context, userID int64, characterID int) (models.AccessDecision, error)
}

// Handler обрабатывает запросы на проверку доступа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверить доступ к персонажу
// @Description Сообщает, разрешает ли действующая подписка писать персонажу.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Идентификатор персонажа"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Не указан character_id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/check-access [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkaccess"
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
		render.JSON(w, r, response.Error(msgCharacterRequired))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgCharacterRequired))
		return
	}

	decision, err := h.service.CheckAccess(r.Context(), userID, req.CharacterID)
	if err != nil {
		log.Error("failed to check access", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalError))
		return
	}

	render.JSON(w, r, Response{
		HasAccess: decision.HasAccess,
		Reason:    decision.Reason,
		PlanType:  decision.PlanType,
		EndDate:   decision.EndDate,
	})
}
