package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/errorhandler"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
)

// Handler handles booking HTTP requests
type Handler struct {
	service   *Service
	sweeper   *Sweeper
	validator *validator.Validate
}

// NewHandler creates a new booking handler
func NewHandler(service *Service, sweeper *Sweeper) *Handler {
	return &Handler{
		service:   service,
		sweeper:   sweeper,
		validator: validator.New(),
	}
}

// CreateRequest handles POST /bookings/requests (client role)
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	b, err := h.service.CreateRequest(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_REQUEST_FAILED", "Could not create booking request")
		return
	}

	response.Created(w, b.ToResponse(b.RoleOf(userID)))
}

// ScheduleAppointment handles POST /bookings/appointments (artist role)
func (h *Handler) ScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req ScheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	b, err := h.service.ScheduleAppointment(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "APPOINTMENT_SEND_FAILED", "Could not send appointment")
		return
	}

	response.Created(w, b.ToResponse(b.RoleOf(userID)))
}

// List handles GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	role := middleware.GetRole(r.Context())

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

	bookings, total, err := h.service.ListForUser(r.Context(), userID, role, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_LIST_FAILED", "Failed to list bookings", err)
		return
	}

	items := make([]*BookingResponse, len(bookings))
	for i := range bookings {
		items[i] = bookings[i].ToResponse(role)
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

// Get handles GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.GetForUser(r.Context(), userID, bookingID)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_GET_FAILED", "Failed to load booking")
		return
	}

	response.OK(w, b.ToResponse(b.RoleOf(userID)))
}

// EditAppointment handles PATCH /bookings/{id}/appointment (artist role)
func (h *Handler) EditAppointment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req EditAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	b, err := h.service.EditAppointment(r.Context(), userID, bookingID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "APPOINTMENT_EDIT_FAILED", "Could not update appointment")
		return
	}

	response.OK(w, b.ToResponse(b.RoleOf(userID)))
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.Cancel(r.Context(), userID, bookingID)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_CANCEL_FAILED", "Could not cancel booking")
		return
	}
	if b == nil {
		// Unknown id: the cancel is already satisfied
		response.NoContent(w)
		return
	}

	response.OK(w, b.ToResponse(b.RoleOf(userID)))
}

// RunSweeps handles POST /sweeps/run, running both jobs and reporting a combined result.
func (h *Handler) RunSweeps(w http.ResponseWriter, r *http.Request) {
	result := h.sweeper.Run(r.Context())

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotBookingArtist):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrBookingClosed),
		errors.Is(err, ErrNotEditable), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrDateInPast):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrVersionConflict):
		response.Conflict(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
