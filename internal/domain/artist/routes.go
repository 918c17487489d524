package artist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkmatch/inkmatch-api/internal/middleware"
)

// Routes returns artist routes. Reads are public; profile writes
// require the artist role.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetProfile)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireArtist())

		r.Put("/profile", h.UpsertProfile)
		r.Post("/profile/portfolio", h.AddPortfolioImage)
		r.Delete("/profile/portfolio", h.RemovePortfolioImage)
	})

	return r
}
