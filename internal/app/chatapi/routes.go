// Package chatapi собирает HTTP-приложение чата: зависимости, маршруты и сервер.
package chatapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/action"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/characters"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/chat/history"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/chat/send"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/health"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/subscription/checkaccess"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/subscription/purchase"
	"github.com/magabrotheeeer/persona-chat/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/metrics"
)

// AuthService регистрация, вход и проверка токена.
type AuthService interface {
	register.Service
	login.Service
	verify.Service
}

// SubscriptionService операции с подписками.
type SubscriptionService interface {
	read.Service
	purchase.Service
	checkaccess.Service
}

// ChatService отправка сообщений и история.
type ChatService interface {
	send.Service
	history.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Log           *slog.Logger
	Auth          AuthService
	Subscriptions SubscriptionService
	Chat          ChatService
	Tokens        middlewarectx.TokenParser
	Personas      characters.Lister
	DB            health.Pinger
	Limiter       *middlewarectx.UserRateLimiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(d.Metrics),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
			MaxAge:         86400,
		}),
	)

	requireAuth := middlewarectx.JWTMiddleware(d.Tokens, d.Log)
	rateLimit := middlewarectx.RateLimitMiddleware(d.Limiter, d.Metrics, d.Log)

	registerH := register.New(d.Log, d.Auth)
	loginH := login.New(d.Log, d.Auth)
	verifyH := verify.New(d.Log, d.Auth)
	readH := read.New(d.Log, d.Subscriptions)
	purchaseH := purchase.New(d.Log, d.Subscriptions)
	checkAccessH := checkaccess.New(d.Log, d.Subscriptions)
	sendH := rateLimit(send.New(d.Log, d.Chat))
	historyH := history.New(d.Log, d.Chat)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", registerH.ServeHTTP)
		r.Post("/login", loginH.ServeHTTP)
		r.Get("/verify", verifyH.ServeHTTP)
		r.Get("/characters", characters.New(d.Personas).ServeHTTP)
		r.Options("/*", optionsOK)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/subscription", readH.ServeHTTP)
			r.Post("/subscription/purchase", purchaseH.ServeHTTP)
			r.Post("/subscription/check-access", checkAccessH.ServeHTTP)
			r.Get("/chat/history", historyH.ServeHTTP)
			r.Post("/chat/send", sendH.ServeHTTP)
		})
	})

	// Эндпоинты прежних клиентов: /resource?action=name
	r.Handle("/auth", action.New(d.Log, "").
		Handle(http.MethodPost, "register", registerH).
		Handle(http.MethodPost, "login", loginH).
		Handle(http.MethodGet, "verify", verifyH))
	r.Handle("/subscriptions", requireAuth(action.New(d.Log, "").
		Handle(http.MethodGet, "get", readH).
		Handle(http.MethodPost, "purchase", purchaseH).
		Handle(http.MethodPost, "check-access", checkAccessH)))
	r.Handle("/chat", requireAuth(action.New(d.Log, "send").
		Handle(http.MethodGet, "history", historyH).
		Handle(http.MethodPost, "send", sendH)))
	for _, path := range []string{"/auth", "/subscriptions", "/chat"} {
		r.Options(path, optionsOK)
	}

	r.Get("/health", health.New(d.Log, d.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// OPTIONS без CORS-заголовков не перехватывается cors.Handler.
	r.Options("/*", optionsOK)
}

func optionsOK(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusOK)
}
