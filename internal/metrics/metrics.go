// Package metrics описывает метрики Prometheus сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "persona_chat"

// Metrics набор метрик сервиса.
type Metrics struct {
	LLMRequests      *prometheus.CounterVec
	LLMDuration      *prometheus.HistogramVec
	BreakerState     *prometheus.GaugeVec
	Purchases        *prometheus.CounterVec
	AccessChecks     *prometheus.CounterVec
	ChatMessages     *prometheus.CounterVec
	RateLimited      prometheus.Counter
	CacheLookups     *prometheus.CounterVec
	EventPublishFail prometheus.Counter
	ExpiryNotices    prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LLMRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Обращения к языковым моделям по уровню и исходу.",
		}, []string{"tier", "outcome"}),
		LLMDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Длительность обращения к языковой модели.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15},
		}, []string{"tier"}),
		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "llm_breaker_state",
			Help:      "Состояние предохранителя основной модели: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
		Purchases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_purchases_total",
			Help:      "Покупки подписок по тарифу.",
		}, []string{"plan_type"}),
		AccessChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_checks_total",
			Help:      "Проверки доступа к персонажу по результату.",
		}, []string{"result"}),
		ChatMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Сохранённые сообщения чата по отправителю.",
		}, []string{"sender"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_rate_limited_total",
			Help:      "Запросы, отклонённые ограничителем частоты.",
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Обращения к кешу активной подписки.",
		}, []string{"result"}),
		EventPublishFail: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Неудачные публикации событий о подписках.",
		}),
		ExpiryNotices: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_expiry_notices_total",
			Help:      "Опубликованные напоминания об окончании подписки.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP-запросы по методу, маршруту и коду ответа.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность обработки HTTP-запроса.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveLLM фиксирует обращение к модели уровня tier.
func (m *Metrics) ObserveLLM(tier, outcome string, elapsed time.Duration) {
	m.LLMRequests.WithLabelValues(tier, outcome).Inc()
	m.LLMDuration.WithLabelValues(tier).Observe(elapsed.Seconds())
}
