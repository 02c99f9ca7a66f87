// Package responder генерирует ответ персонажа: сначала основной моделью,
// а при её ошибке или неподходящем ответе резервной.
package responder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/magabrotheeeer/persona-chat/internal/config"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/llmprovider"
	"github.com/magabrotheeeer/persona-chat/internal/metrics"
)

// ErrAllModelsFailed не ответила ни одна модель.
var ErrAllModelsFailed = errors.New("all models failed")

// Tier уровень модели, давшей ответ.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
)

// Completer обращается к языковой модели.
type Completer interface {
	Complete(ctx context.Context, req llmprovider.Request) (string, error)
}

// PromptSource возвращает системный промпт персонажа.
type PromptSource interface {
	Prompt(id int) string
}

// Reply ответ модели.
type Reply struct {
	Text  string
	Model string
	Tier  Tier
}

// Responder двухуровневый генератор ответов.
type Responder struct {
	llm      Completer
	personas PromptSource
	cfg      config.LLM
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New создаёт Responder. Основная модель обёрнута в предохранитель:
// после cfg.BreakerThreshold ошибок подряд запросы на cfg.BreakerTimeout идут сразу в резервную.
func New(llm Completer, personas PromptSource, cfg config.LLM, m *metrics.Metrics, log *slog.Logger) *Responder {
	r := &Responder{
		llm:      llm,
		personas: personas,
		cfg:      cfg,
		metrics:  m,
		log:      log,
	}
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-primary",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			m.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	m.BreakerState.WithLabelValues("llm-primary").Set(float64(gobreaker.StateClosed))
	return r
}

// Respond возвращает ответ персонажа characterID на userMessage.
// Неизвестный персонаж отвечает промптом персонажа по умолчанию.
// Ответ резервной модели не проверяется; её ошибка возвращается как ErrAllModelsFailed.
func (r *Responder) Respond(ctx context.Context, characterID int, userMessage string) (Reply, error) {
	const op = "responder.Respond"
	log := r.log.With(slog.String("op", op), slog.Int("character_id", characterID))

	req := llmprovider.Request{
		SystemPrompt: r.personas.Prompt(characterID),
		UserMessage:  userMessage,
		Temperature:  r.cfg.Temperature,
		MaxTokens:    r.cfg.MaxTokens,
	}

	text, err := r.callPrimary(ctx, req)
	switch {
	case err == nil:
		return Reply{Text: strings.TrimSpace(text), Model: r.cfg.PrimaryModel, Tier: TierPrimary}, nil
	case errors.Is(err, errRejected):
		log.Info("primary reply rejected by screening, using fallback")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Debug("primary model skipped, breaker open")
	default:
		log.Warn("primary model failed, using fallback", sl.Err(err))
	}

	req.Model = r.cfg.FallbackModel
	start := time.Now()
	text, err = r.llm.Complete(ctx, req)
	if err != nil {
		r.metrics.ObserveLLM(string(TierSecondary), "error", time.Since(start))
		log.Error("fallback model failed", sl.Err(err))
		return Reply{}, fmt.Errorf("%s: %w: %w", op, ErrAllModelsFailed, err)
	}
	r.metrics.ObserveLLM(string(TierSecondary), "ok", time.Since(start))

	return Reply{Text: strings.TrimSpace(text), Model: r.cfg.FallbackModel, Tier: TierSecondary}, nil
}

// errRejected ответ основной модели не прошёл проверку.
var errRejected = errors.New("reply rejected")

// callPrimary обращается к основной модели через предохранитель.
// Отказ по содержанию ответа не считается сбоем модели.
func (r *Responder) callPrimary(ctx context.Context, req llmprovider.Request) (string, error) {
	req.Model = r.cfg.PrimaryModel
	var text string
	start := time.Now()
	_, err := r.breaker.Execute(func() (interface{}, error) {
		var callErr error
		text, callErr = r.llm.Complete(ctx, req)
		return nil, callErr
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		r.metrics.LLMRequests.WithLabelValues(string(TierPrimary), "skipped").Inc()
		return "", err
	case err != nil:
		r.metrics.ObserveLLM(string(TierPrimary), "error", time.Since(start))
		return "", err
	case Rejected(text):
		r.metrics.ObserveLLM(string(TierPrimary), "rejected", time.Since(start))
		return "", errRejected
	}
	r.metrics.ObserveLLM(string(TierPrimary), "ok", time.Since(start))
	return text, nil
}
