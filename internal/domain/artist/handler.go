package artist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/errorhandler"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
	"github.com/inkmatch/inkmatch-api/internal/pkg/validator"
)

// Handler handles artist HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new artist handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UpsertProfile handles PUT /artists/profile (artist role)
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	profile, err := h.service.UpsertProfile(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "PROFILE_UPSERT_FAILED", "Could not save profile")
		return
	}

	response.OK(w, profile.ToResponse())
}

// GetProfile handles GET /artists/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	artistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid artist ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), artistID)
	if err != nil {
		h.writeServiceError(w, r, err, "PROFILE_GET_FAILED", "Failed to load profile")
		return
	}

	response.OK(w, profile.ToResponse())
}

// List handles GET /artists
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, 20
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}
	offset := (page - 1) * limit

	filter := ListFilter{
		City:          r.URL.Query().Get("city"),
		Style:         r.URL.Query().Get("style"),
		AcceptingOnly: r.URL.Query().Get("accepting") == "true",
	}

	profiles, total, err := h.service.ListProfiles(r.Context(), filter, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ARTIST_LIST_FAILED", "Failed to list artists", err)
		return
	}

	items := make([]*ProfileResponse, len(profiles))
	for i := range profiles {
		items[i] = profiles[i].ToResponse()
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

// AddPortfolioImage handles POST /artists/profile/portfolio (artist role)
func (h *Handler) AddPortfolioImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req AddPortfolioImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	profile, err := h.service.AddPortfolioImage(r.Context(), userID, req.ImageURL)
	if err != nil {
		h.writeServiceError(w, r, err, "PORTFOLIO_ADD_FAILED", "Could not add portfolio image")
		return
	}

	response.OK(w, profile.ToResponse())
}

// RemovePortfolioImage handles DELETE /artists/profile/portfolio (artist role)
func (h *Handler) RemovePortfolioImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	imageURL := r.URL.Query().Get("image_url")
	if imageURL == "" {
		response.BadRequest(w, "image_url query parameter is required")
		return
	}

	profile, err := h.service.RemovePortfolioImage(r.Context(), userID, imageURL)
	if err != nil {
		h.writeServiceError(w, r, err, "PORTFOLIO_REMOVE_FAILED", "Could not remove portfolio image")
		return
	}

	response.OK(w, profile.ToResponse())
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.NotFound(w, "Artist profile not found")
	case errors.Is(err, ErrTooManyImages):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
