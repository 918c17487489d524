package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/user"
	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/errorhandler"
	pkgjwt "github.com/inkmatch/inkmatch-api/internal/pkg/jwt"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
	"github.com/inkmatch/inkmatch-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			response.Conflict(w, "Email already registered")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REGISTER_FAILED", "Registration failed", err)
		return
	}

	response.Created(w, result)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed", err)
		return
	}

	response.OK(w, result)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, pkgjwt.ErrInvalidToken) || errors.Is(err, pkgjwt.ErrExpiredToken) || errors.Is(err, user.ErrUserNotFound) {
			response.Unauthorized(w, "Invalid refresh token")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REFRESH_FAILED", "Token refresh failed", err)
		return
	}

	response.OK(w, result)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	profile, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ME_FAILED", "Failed to load profile", err)
		return
	}

	response.OK(w, profile)
}
