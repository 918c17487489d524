package booking

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
)

// Routes returns user-facing booking routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.With(middleware.RequireClient()).Post("/requests", h.CreateRequest)
	r.With(middleware.RequireArtist()).Post("/appointments", h.ScheduleAppointment)

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.With(middleware.RequireArtist()).Patch("/{id}/appointment", h.EditAppointment)
	r.Post("/{id}/cancel", h.Cancel)

	return r
}

// CronRoutes returns the sweep endpoints for the external scheduler.
// When secret is non-empty, callers must present it in X-Cron-Secret.
func (h *Handler) CronRoutes(secret string) chi.Router {
	r := chi.NewRouter()
	if secret != "" {
		r.Use(cronSecret(secret))
	}

	r.Post("/run", h.RunSweeps)

	return r
}

func cronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Cron-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid cron secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
