// Package characters реализует HTTP-обработчик списка персонажей.
package characters

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/persona-chat/internal/persona"
)

// Lister возвращает персонажей в порядке идентификаторов.
type Lister interface {
	List() []persona.Persona
}

// Response список персонажей. Системные промпты не раскрываются.
type Response struct {
	Characters []persona.Persona `json:"characters"`
}

// Handler отдаёт список персонажей.
type Handler struct {
	personas Lister
}

// New создает новый Handler.
func New(personas Lister) *Handler {
	return &Handler{personas: personas}
}

// ServeHTTP godoc
// @Summary Список персонажей
// @Tags Chat
// @Produce  json
// @Success 200 {object} Response
// @Router /characters [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{Characters: h.personas.List()})
}
