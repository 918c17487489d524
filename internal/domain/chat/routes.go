package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns chat router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/rooms", h.CreateRoom)
	r.Get("/rooms", h.ListRooms)

	r.Get("/rooms/{id}/messages", h.GetMessages)
	r.Post("/rooms/{id}/messages", h.SendMessage)
	r.Post("/rooms/{id}/read", h.MarkAsRead)

	r.Get("/unread", h.GetUnreadCount)

	return r
}
