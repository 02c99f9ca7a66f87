package chatapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/persona-chat/internal/cache"
	"github.com/magabrotheeeer/persona-chat/internal/config"
	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/lib/jwt"
	"github.com/magabrotheeeer/persona-chat/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/llmprovider"
	"github.com/magabrotheeeer/persona-chat/internal/metrics"
	"github.com/magabrotheeeer/persona-chat/internal/migrations"
	"github.com/magabrotheeeer/persona-chat/internal/persona"
	authservice "github.com/magabrotheeeer/persona-chat/internal/services/auth"
	chatservice "github.com/magabrotheeeer/persona-chat/internal/services/chat"
	"github.com/magabrotheeeer/persona-chat/internal/services/responder"
	"github.com/magabrotheeeer/persona-chat/internal/services/scheduler"
	subservice "github.com/magabrotheeeer/persona-chat/internal/services/subscription"
	"github.com/magabrotheeeer/persona-chat/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type eventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
	Close() error
}

// App HTTP-сервер чата со всеми зависимостями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher eventPublisher
	scheduler *scheduler.Service
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "chatapi.New"

	db, err := repository.New(cfg.StorageConnectionString, cfg.DBSchema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath, cfg.DBSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publisher := newPublisher(cfg.RabbitMQ, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	personas := persona.New(cfg.Personas)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	llm := llmprovider.New(cfg.LLM)

	subscriptionService := subservice.NewService(db, cacheRedis, personas, publisher, m, logger, cfg.CacheTTL)
	chatService := chatservice.NewService(
		subscriptionService,
		responder.New(llm, personas, cfg.LLM, m, logger),
		db,
		m,
		logger,
	)
	authService := authservice.NewService(db, jwtMaker, logger)
	expiryScheduler := scheduler.NewService(db, cacheRedis, publisher, m, logger, cfg.Scheduler)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Log:           logger,
		Auth:          authService,
		Subscriptions: subscriptionService,
		Chat:          chatService,
		Tokens:        jwtMaker,
		Personas:      personas,
		DB:            db,
		Limiter:       middlewarectx.NewUserRateLimiter(cfg.ChatRPS, cfg.ChatBurst),
		Metrics:       m,
		Gatherer:      registry,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
		scheduler: expiryScheduler,
	}, nil
}

// newPublisher подключается к RabbitMQ; без брокера события не публикуются.
func newPublisher(cfg config.RabbitMQ, logger *slog.Logger) eventPublisher {
	if cfg.URL == "" {
		logger.Info("rabbitmq url is empty, subscription events are disabled")
		return rabbitmq.NoopPublisher{}
	}
	publisher, err := rabbitmq.NewPublisher(cfg)
	if err != nil {
		logger.Warn("rabbitmq is unavailable, subscription events are disabled", sl.Err(err))
		return rabbitmq.NoopPublisher{}
	}
	return publisher
}

// Run запускает сервер и планировщик напоминаний и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	schedDone := make(chan struct{})
	go func() {
		a.scheduler.Run(schedCtx)
		close(schedDone)
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stopScheduler()
		<-schedDone
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		stopScheduler()
		<-schedDone
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("failed to close rabbitmq publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis client", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
