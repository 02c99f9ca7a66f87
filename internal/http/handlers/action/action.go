// Package action маршрутизирует запросы вида /resource?action=name по паре (метод, действие).
//
// Так устроены эндпоинты, которыми пользуются прежние клиенты: /auth, /subscriptions и /chat.
package action

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/persona-chat/internal/http/response"
)

type route struct {
	method string
	action string
}

// Dispatcher выбирает обработчик по параметру action и HTTP-методу.
type Dispatcher struct {
	log           *slog.Logger
	defaultAction string
	routes        map[route]http.Handler
}

// New создает Dispatcher. defaultAction используется, когда параметр action не задан.
func New(log *slog.Logger, defaultAction string) *Dispatcher {
	return &Dispatcher{
		log:           log,
		defaultAction: defaultAction,
		routes:        make(map[route]http.Handler),
	}
}

// Handle регистрирует обработчик для метода и действия.
func (d *Dispatcher) Handle(method, action string, h http.Handler) *Dispatcher {
	d.routes[route{method: method, action: action}] = h
	return d
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("action")
	if name == "" {
		name = d.defaultAction
	}
	h, ok := d.routes[route{method: r.Method, action: name}]
	if !ok {
		d.log.Info("unknown action",
			slog.String("op", "handlers.action"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("action", name),
		)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgUnknownAction))
		return
	}
	h.ServeHTTP(w, r)
}
