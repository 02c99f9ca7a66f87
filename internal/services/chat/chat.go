// Package chat реализует отправку сообщений персонажу с проверкой подписки и историю переписки.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/metrics"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	"github.com/magabrotheeeer/persona-chat/internal/services/responder"
)

// Placeholder подставляется вместо пустого ответа модели.
const Placeholder = "Прости, что-то пошло не так... Попробуй ещё раз"

// Коды отказа в доступе.
const (
	CodeNoSubscription = "NO_SUBSCRIPTION"
	CodeNoAccess       = "NO_ACCESS"
)

// AccessDeniedError у пользователя нет права писать персонажу.
type AccessDeniedError struct {
	Code   string
	Reason models.AccessReason
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// AccessChecker проверяет доступ пользователя к персонажу.
type AccessChecker interface {
	CheckAccess(ctx context.Context, userID int64, characterID int) (models.AccessDecision, error)
}

// Responder генерирует ответ персонажа.
type Responder interface {
	Respond(ctx context.Context, characterID int, userMessage string) (responder.Reply, error)
}

// Repository хранилище сообщений.
type Repository interface {
	InsertMessage(ctx context.Context, msg models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, userID int64, characterID *int) ([]models.Message, error)
}

// Service обрабатывает сообщения пользователей.
type Service struct {
	access    AccessChecker
	responder Responder
	repo      Repository
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(access AccessChecker, resp Responder, repo Repository, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		access:    access,
		responder: resp,
		repo:      repo,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Send сохраняет сообщение пользователя, получает ответ персонажа и сохраняет его.
// При отсутствии доступа возвращает *AccessDeniedError и ничего не записывает.
func (s *Service) Send(ctx context.Context, userID int64, characterID int, text string) (*models.ChatReply, error) {
	const op = "chat.Send"
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.Int64("user_id", userID),
		slog.Int("character_id", characterID),
	)

	decision, err := s.access.CheckAccess(ctx, userID, characterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.HasAccess {
		code := CodeNoSubscription
		if decision.Reason == models.ReasonNoAccess {
			code = CodeNoAccess
		}
		log.Info("chat access denied", slog.String("reason", string(decision.Reason)))
		return nil, &AccessDeniedError{Code: code, Reason: decision.Reason}
	}

	_, err = s.repo.InsertMessage(ctx, models.Message{
		UserID:      userID,
		CharacterID: characterID,
		Text:        text,
		Sender:      models.SenderUser,
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.ChatMessages.WithLabelValues(string(models.SenderUser)).Inc()

	reply, err := s.responder.Respond(ctx, characterID, text)
	if err != nil {
		log.Error("failed to get reply", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	answer := reply.Text
	if strings.TrimSpace(answer) == "" {
		answer = Placeholder
	}

	saved, err := s.repo.InsertMessage(ctx, models.Message{
		UserID:      userID,
		CharacterID: characterID,
		Text:        answer,
		Sender:      models.SenderAI,
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.ChatMessages.WithLabelValues(string(models.SenderAI)).Inc()

	log.Debug("reply sent", slog.String("model", reply.Model), slog.String("tier", string(reply.Tier)))
	return &models.ChatReply{Text: answer, MessageID: saved.ID, Model: reply.Model}, nil
}

// History возвращает переписку пользователя по возрастанию времени.
// characterID == nil означает все персонажи.
func (s *Service) History(ctx context.Context, userID int64, characterID *int) ([]models.Message, error) {
	const op = "chat.History"
	msgs, err := s.repo.ListMessages(ctx, userID, characterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}
