package booking

import (
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CreateRequestRequest for POST /bookings/requests (client-initiated)
type CreateRequestRequest struct {
	ArtistID        string   `json:"artist_id" validate:"required,uuid"`
	Subject         string   `json:"subject" validate:"required,min=5,max=500"`
	Style           string   `json:"style" validate:"omitempty,max=100"`
	BodyArea        string   `json:"body_area" validate:"omitempty,max=100"`
	SizeCategory    string   `json:"size_category" validate:"omitempty,oneof=small medium large full_piece"`
	ColorPreference string   `json:"color_preference" validate:"omitempty,oneof=black_and_grey color either"`
	Meaning         string   `json:"meaning" validate:"omitempty,max=2000"`
	BudgetMin       *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax       *float64 `json:"budget_max" validate:"omitempty,gte=0"`
	ReferenceImages []string `json:"reference_images" validate:"omitempty,max=10,dive,url"`
}

// ScheduleAppointmentRequest for POST /bookings/appointments (artist-initiated).
// All fields except artist_notes are required.
type ScheduleAppointmentRequest struct {
	ClientID        string  `json:"client_id" validate:"required,uuid"`
	Subject         string  `json:"subject" validate:"required,min=5,max=500"`
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string  `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gte=30,lte=720"`
	TotalAmount     float64 `json:"total_amount" validate:"required,gt=0"`
	DepositAmount   float64 `json:"deposit_amount" validate:"required,gte=0"`
	ArtistNotes     string  `json:"artist_notes" validate:"omitempty,max=2000"`
}

// AppointmentTime combines the date and time fields into a timestamp (UTC).
func (r *ScheduleAppointmentRequest) AppointmentTime() (time.Time, error) {
	return time.Parse(dateLayout+" "+timeLayout, r.Date+" "+r.Time)
}

// EditAppointmentRequest for PATCH /bookings/{id}/appointment.
// Every field is optional; only provided fields are written.
type EditAppointmentRequest struct {
	Date            *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time            *string  `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,gte=30,lte=720"`
	DepositAmount   *float64 `json:"deposit_amount" validate:"omitempty,gte=0"`
	ArtistNotes     *string  `json:"artist_notes" validate:"omitempty,max=2000"`
}

// RequestDetailsResponse mirrors RequestDetails in API responses
type RequestDetailsResponse struct {
	Style           string   `json:"style,omitempty"`
	BodyArea        string   `json:"body_area,omitempty"`
	SizeCategory    string   `json:"size_category,omitempty"`
	ColorPreference string   `json:"color_preference,omitempty"`
	Meaning         string   `json:"meaning,omitempty"`
	BudgetMin       *float64 `json:"budget_min,omitempty"`
	BudgetMax       *float64 `json:"budget_max,omitempty"`
	ReferenceImages []string `json:"reference_images,omitempty"`
}

// AppointmentDetailsResponse mirrors AppointmentDetails in API responses
type AppointmentDetailsResponse struct {
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	DurationMinutes int32    `json:"duration_minutes,omitempty"`
	DepositAmount   *float64 `json:"deposit_amount,omitempty"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	ArtistNotes     string   `json:"artist_notes,omitempty"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID       uuid.UUID `json:"id"`
	ClientID uuid.UUID `json:"client_id"`
	ArtistID uuid.UUID `json:"artist_id"`

	Status  string `json:"status"`
	Subject string `json:"subject"`

	Request     *RequestDetailsResponse     `json:"request,omitempty"`
	Appointment *AppointmentDetailsResponse `json:"appointment,omitempty"`

	// Presentation fields for the requesting viewer
	StatusLabel string `json:"status_label,omitempty"`
	Clickable   bool   `json:"clickable"`

	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToResponse converts entity to response DTO for the given viewer role
// ("client", "artist" or empty for no presentation fields).
func (b *Booking) ToResponse(viewerRole string) *BookingResponse {
	resp := &BookingResponse{
		ID:        b.ID,
		ClientID:  b.ClientID,
		ArtistID:  b.ArtistID,
		Status:    string(b.Status),
		Subject:   b.Subject,
		Version:   b.Version,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}

	if viewerRole != "" {
		view := ViewFor(b.Status, viewerRole)
		resp.StatusLabel = view.Label
		resp.Clickable = view.Clickable
	}

	req := &RequestDetailsResponse{
		ReferenceImages: []string(b.ReferenceImages),
	}
	populated := len(req.ReferenceImages) > 0
	if b.Style.Valid {
		req.Style = b.Style.String
		populated = true
	}
	if b.BodyArea.Valid {
		req.BodyArea = b.BodyArea.String
		populated = true
	}
	if b.SizeCategory.Valid {
		req.SizeCategory = b.SizeCategory.String
		populated = true
	}
	if b.ColorPreference.Valid {
		req.ColorPreference = b.ColorPreference.String
		populated = true
	}
	if b.Meaning.Valid {
		req.Meaning = b.Meaning.String
		populated = true
	}
	if b.BudgetMin.Valid {
		req.BudgetMin = &b.BudgetMin.Float64
		populated = true
	}
	if b.BudgetMax.Valid {
		req.BudgetMax = &b.BudgetMax.Float64
		populated = true
	}
	if populated {
		resp.Request = req
	}

	if b.AppointmentDate.Valid {
		appt := &AppointmentDetailsResponse{
			Date: b.AppointmentDate.Time.Format(dateLayout),
			Time: b.AppointmentDate.Time.Format(timeLayout),
		}
		if b.DurationMinutes.Valid {
			appt.DurationMinutes = b.DurationMinutes.Int32
		}
		if b.DepositAmount.Valid {
			appt.DepositAmount = &b.DepositAmount.Float64
		}
		if b.TotalAmount.Valid {
			appt.TotalAmount = &b.TotalAmount.Float64
		}
		if b.ArtistNotes.Valid {
			appt.ArtistNotes = b.ArtistNotes.String
		}
		resp.Appointment = appt
	}

	return resp
}
