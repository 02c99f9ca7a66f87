// Package scheduler периодически напоминает об окончании подписок.
//
// Каждый проход находит действующие подписки, срок которых истекает в пределах окна,
// и публикует по каждой событие subscription.expiring. Отметка в кеше не даёт
// отправить напоминание по одной подписке дважды.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/persona-chat/internal/config"
	"github.com/magabrotheeeer/persona-chat/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/metrics"
	"github.com/magabrotheeeer/persona-chat/internal/models"
)

// Repository ищет подписки с истекающим сроком.
type Repository interface {
	FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]models.ExpiringSubscription, error)
}

// Cache хранит отметки об отправленных напоминаниях.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// EventPublisher публикует события о подписках.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// ExpiringEvent событие о скором окончании подписки.
type ExpiringEvent struct {
	models.ExpiringSubscription
	NotifiedAt time.Time `json:"notified_at"`
}

// Service планировщик напоминаний.
type Service struct {
	repo     Repository
	cache    Cache
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *slog.Logger
	interval time.Duration
	window   time.Duration
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, events EventPublisher, m *metrics.Metrics,
	log *slog.Logger, cfg config.Scheduler) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		events:   events,
		metrics:  m,
		log:      log,
		interval: cfg.ExpiryCheckInterval,
		window:   cfg.ExpiryNoticeWindow,
		now:      time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func notifiedKey(subscriptionID int64) string {
	return "subscription:expiring-notified:" + strconv.FormatInt(subscriptionID, 10)
}

// Run выполняет проход сразу и затем с интервалом из конфигурации до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	if s.interval <= 0 || s.window <= 0 {
		s.log.Info("expiry scheduler is disabled")
		return
	}

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	sent, err := s.NotifyExpiring(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if sent > 0 {
		s.log.Info("published expiry notices", slog.Int("count", sent))
	}
}

// NotifyExpiring публикует напоминания по подпискам, истекающим в ближайшее окно,
// и возвращает число опубликованных событий. Ошибка публикации одного события
// не прерывает проход; такая подписка будет обработана в следующий раз.
func (s *Service) NotifyExpiring(ctx context.Context) (int, error) {
	const op = "services.scheduler.NotifyExpiring"

	now := s.now()
	expiring, err := s.repo.FindSubscriptionsExpiringBetween(ctx, now, now.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	sent := 0
	for _, sub := range expiring {
		log := s.log.With(slog.String("op", op), slog.Int64("subscription_id", sub.SubscriptionID))
		key := notifiedKey(sub.SubscriptionID)

		var notified bool
		found, err := s.cache.Get(ctx, key, &notified)
		if err != nil {
			log.Warn("failed to read notice marker", sl.Err(err))
		}
		if found && notified {
			continue
		}

		event := ExpiringEvent{ExpiringSubscription: sub, NotifiedAt: now}
		if err = s.events.Publish(ctx, rabbitmq.RoutingKeyExpiring, event); err != nil {
			s.metrics.EventPublishFail.Inc()
			log.Warn("failed to publish expiry notice", sl.Err(err))
			continue
		}
		s.metrics.ExpiryNotices.Inc()
		sent++

		ttl := sub.EndDate.Sub(now) + time.Minute
		if err = s.cache.Set(ctx, key, true, ttl); err != nil {
			log.Warn("failed to store notice marker", sl.Err(err))
		}
	}
	return sent, nil
}
