package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/errorhandler"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
	"github.com/inkmatch/inkmatch-api/internal/pkg/validator"
)

// Handler handles upload HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates upload handler. service may be nil when object
// storage is not configured; endpoints then return 503.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Presign handles POST /uploads/presign
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		response.Error(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Object storage is not configured")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	result, err := h.service.Presign(r.Context(), userID, &req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PRESIGN_FAILED", "Could not create upload URL", err)
		return
	}

	response.OK(w, result)
}

// Delete handles DELETE /uploads
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		response.Error(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Object storage is not configured")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "key query parameter is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, key); err != nil {
		if errors.Is(err, ErrNotObjectOwner) {
			response.Forbidden(w, "You do not own this object")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "DELETE_FAILED", "Could not delete object", err)
		return
	}

	response.NoContent(w)
}
