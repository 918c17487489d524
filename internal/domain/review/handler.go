package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/booking"
	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/errorhandler"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
)

// Handler handles review HTTP requests.
type Handler struct {
	service   *Service
	repo      *Repository
	validator *validator.Validate
}

// NewHandler creates a new review handler.
func NewHandler(service *Service, repo *Repository) *Handler {
	return &Handler{
		service:   service,
		repo:      repo,
		validator: validator.New(),
	}
}

// Create handles POST /reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	rev, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, booking.ErrNotParticipant), errors.Is(err, ErrNotBookingClient):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrBookingNotCompleted):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadyReviewed):
			response.Conflict(w, err.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_CREATION_FAILED", "Failed to create review", err)
		}
		return
	}

	response.Created(w, rev.ToResponse())
}

// ListByArtist handles GET /reviews?artist_id=X
func (h *Handler) ListByArtist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	artistID, err := uuid.Parse(q.Get("artist_id"))
	if err != nil {
		response.BadRequest(w, "artist_id is required")
		return
	}

	page, limit := 1, 10
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}
	offset := (page - 1) * limit

	reviews, err := h.repo.ListByArtist(r.Context(), artistID, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_LIST_FAILED", "Failed to list reviews", err)
		return
	}

	total, err := h.repo.CountByArtist(r.Context(), artistID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_COUNT_FAILED", "Failed to count reviews", err)
		return
	}

	items := make([]*ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = reviews[i].ToResponse()
	}

	response.WithMeta(w, items, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   (total + limit - 1) / limit,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	})
}

// GetSummary handles GET /reviews/summary?artist_id=X
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(r.URL.Query().Get("artist_id"))
	if err != nil {
		response.BadRequest(w, "artist_id is required")
		return
	}

	summary, err := h.service.Summary(r.Context(), artistID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_SUMMARY_FAILED", "Failed to build rating summary", err)
		return
	}

	response.OK(w, summary)
}

// Routes returns review routes.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListByArtist)
	r.Get("/summary", h.GetSummary)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireClient())
		r.Post("/", h.Create)
	})

	return r
}
