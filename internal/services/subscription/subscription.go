// Package subscription реализует политику подписок: покупку суточного доступа,
// поиск действующей подписки и проверку доступа к персонажу.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/persona-chat/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/metrics"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	"github.com/magabrotheeeer/persona-chat/internal/storage/repository"
)

var (
	// ErrInvalidPlan неизвестный тариф.
	ErrInvalidPlan = errors.New("invalid plan type")
	// ErrCharacterRequired для тарифа single не указан персонаж.
	ErrCharacterRequired = errors.New("character_id is required for single plan")
	// ErrUnknownCharacter для тарифа single указан несуществующий персонаж.
	ErrUnknownCharacter = errors.New("unknown character")
)

// Repository хранилище подписок.
type Repository interface {
	// GetLatestActiveSubscription возвращает последнюю подписку с флагом is_active
	// или repository.ErrNotFound.
	GetLatestActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	// ReplaceActiveSubscription атомарно деактивирует прежние подписки и сохраняет новую.
	ReplaceActiveSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// Characters набор известных персонажей.
type Characters interface {
	Exists(id int) bool
}

// EventPublisher публикует события о подписках.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// PurchasedEvent событие о покупке подписки.
type PurchasedEvent struct {
	EventID        string          `json:"event_id"`
	UserID         int64           `json:"user_id"`
	SubscriptionID int64           `json:"subscription_id"`
	PlanType       models.PlanType `json:"plan_type"`
	CharacterID    *int            `json:"character_id"`
	Price          int             `json:"price"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Service реализует бизнес-логику работы с подписками, включая кеширование.
type Service struct {
	repo       Repository
	cache      Cache
	characters Characters
	events     EventPublisher
	metrics    *metrics.Metrics
	log        *slog.Logger
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, characters Characters, events EventPublisher,
	m *metrics.Metrics, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		characters: characters,
		events:     events,
		metrics:    m,
		log:        log,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func activeKey(userID int64) string {
	return "subscription:active:" + strconv.FormatInt(userID, 10)
}

// GetActive возвращает действующую подписку пользователя или nil, если её нет.
func (s *Service) GetActive(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "subscription.GetActive"
	sub, err := s.latestActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sub == nil || !sub.ValidAt(s.now()) {
		return nil, nil
	}
	return sub, nil
}

// Purchase оформляет подписку на сутки, заменяя действующую.
// Для тарифа all characterID игнорируется.
func (s *Service) Purchase(ctx context.Context, userID int64, plan models.PlanType, characterID *int) (*models.PurchaseResult, error) {
	const op = "subscription.Purchase"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID))

	if !plan.Valid() {
		return nil, ErrInvalidPlan
	}
	switch plan {
	case models.PlanSingle:
		if characterID == nil || *characterID <= 0 {
			return nil, ErrCharacterRequired
		}
		if !s.characters.Exists(*characterID) {
			return nil, ErrUnknownCharacter
		}
	case models.PlanAll:
		characterID = nil
	}

	start := s.now().UTC()
	sub, err := s.repo.ReplaceActiveSubscription(ctx, models.Subscription{
		UserID:      userID,
		PlanType:    plan,
		CharacterID: characterID,
		StartDate:   start,
		EndDate:     start.Add(models.SubscriptionPeriod),
		IsActive:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Purchases.WithLabelValues(string(plan)).Inc()

	// Запись перезаписывает всё, что читатели успели положить до коммита.
	key := activeKey(userID)
	if err = s.cache.Set(ctx, key, sub, s.ttlFor(sub)); err != nil {
		log.Warn("failed to cache purchased subscription", sl.Err(err))
		if err = s.cache.Invalidate(ctx, key); err != nil {
			log.Warn("failed to invalidate cached subscription", sl.Err(err))
		}
	}

	price := plan.Price()
	event := PurchasedEvent{
		EventID:        uuid.NewString(),
		UserID:         userID,
		SubscriptionID: sub.ID,
		PlanType:       sub.PlanType,
		CharacterID:    sub.CharacterID,
		Price:          price,
		StartDate:      sub.StartDate,
		EndDate:        sub.EndDate,
		OccurredAt:     s.now().UTC(),
	}
	if err = s.events.Publish(ctx, rabbitmq.RoutingKeyPurchased, event); err != nil {
		s.metrics.EventPublishFail.Inc()
		log.Warn("failed to publish purchase event", sl.Err(err))
	}

	log.Info("subscription purchased",
		slog.Int64("subscription_id", sub.ID),
		slog.String("plan_type", string(plan)),
	)
	return &models.PurchaseResult{Subscription: *sub, Price: price}, nil
}

// CheckAccess проверяет, может ли пользователь писать персонажу characterID.
func (s *Service) CheckAccess(ctx context.Context, userID int64, characterID int) (models.AccessDecision, error) {
	const op = "subscription.CheckAccess"
	sub, err := s.latestActive(ctx, userID)
	if err != nil {
		return models.AccessDecision{}, fmt.Errorf("%s: %w", op, err)
	}

	var decision models.AccessDecision
	switch {
	case sub == nil:
		decision = models.AccessDecision{Reason: models.ReasonNoSubscription}
	case !sub.ValidAt(s.now()):
		decision = models.AccessDecision{Reason: models.ReasonExpired}
	default:
		end := sub.EndDate
		decision = models.AccessDecision{
			HasAccess: sub.Covers(characterID),
			PlanType:  sub.PlanType,
			EndDate:   &end,
		}
		if !decision.HasAccess {
			decision.Reason = models.ReasonNoAccess
		}
	}

	result := "granted"
	if !decision.HasAccess {
		result = string(decision.Reason)
	}
	s.metrics.AccessChecks.WithLabelValues(result).Inc()
	return decision, nil
}

// latestActive возвращает последнюю активную подписку без проверки срока, сначала из кеша.
func (s *Service) latestActive(ctx context.Context, userID int64) (*models.Subscription, error) {
	log := s.log.With(slog.String("op", "subscription.latestActive"), slog.Int64("user_id", userID))
	key := activeKey(userID)

	var cached models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("cache lookup failed", sl.Err(err))
	}
	if found {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	sub, err := s.repo.GetLatestActiveSubscription(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// SetNX не затирает запись, сохранённую покупкой, пока шло чтение из БД.
	if ttl := s.ttlFor(sub); ttl > 0 {
		if _, err = s.cache.SetNX(ctx, key, sub, ttl); err != nil {
			log.Warn("failed to cache subscription", sl.Err(err))
		}
	}
	return sub, nil
}

// ttlFor время жизни записи в кеше: не дольше, чем подписка остаётся действующей.
func (s *Service) ttlFor(sub *models.Subscription) time.Duration {
	remaining := sub.EndDate.Sub(s.now())
	if remaining <= 0 {
		return 0
	}
	return min(s.cacheTTL, remaining)
}
