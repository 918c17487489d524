package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents booking status (matches booking_status enum)
type Status string

const (
	StatusPending     Status = "pending"
	StatusExpired     Status = "expired"
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
)

// IsTerminal returns true for statuses that admit no further transition
func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusCancelled || s == StatusCompleted
}

// RequestDetails carries the fields a client fills in when asking an artist
// for work. Only meaningful while the booking is still a request (no
// appointment date set).
type RequestDetails struct {
	Style           sql.NullString  `db:"style"`
	BodyArea        sql.NullString  `db:"body_area"`
	SizeCategory    sql.NullString  `db:"size_category"`
	ColorPreference sql.NullString  `db:"color_preference"`
	Meaning         sql.NullString  `db:"meaning"`
	BudgetMin       sql.NullFloat64 `db:"budget_min"`
	BudgetMax       sql.NullFloat64 `db:"budget_max"`
	ReferenceImages pq.StringArray  `db:"reference_images"`
}

// AppointmentDetails carries the fields the artist sets when scheduling.
type AppointmentDetails struct {
	AppointmentDate sql.NullTime    `db:"appointment_date"`
	DurationMinutes sql.NullInt32   `db:"appointment_duration"`
	DepositAmount   sql.NullFloat64 `db:"deposit_amount"`
	TotalAmount     sql.NullFloat64 `db:"total_amount"`
	ArtistNotes     sql.NullString  `db:"artist_notes"`
}

// Booking represents a tattoo-service request or scheduled appointment
// between a client and an artist (matches bookings table).
type Booking struct {
	ID       uuid.UUID `db:"id"`
	ClientID uuid.UUID `db:"client_id"`
	ArtistID uuid.UUID `db:"artist_id"`

	Status  Status `db:"status"`
	Subject string `db:"subject"`

	RequestDetails
	AppointmentDetails

	// Version guards concurrent updates: writes carry the version read and
	// fail with ErrVersionConflict when the row changed since.
	Version int `db:"version"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasParticipant checks if user is the client or artist on this booking
func (b *Booking) HasParticipant(userID uuid.UUID) bool {
	return b.ClientID == userID || b.ArtistID == userID
}

// RoleOf returns "client" or "artist" for a participant, "" otherwise
func (b *Booking) RoleOf(userID uuid.UUID) string {
	switch userID {
	case b.ClientID:
		return "client"
	case b.ArtistID:
		return "artist"
	}
	return ""
}

// HasAppointment reports whether an appointment date has been set.
// A booking without a date is still a request awaiting artist action.
func (b *Booking) HasAppointment() bool {
	return b.AppointmentDate.Valid
}

// IsEditableBy checks the edit-eligibility window: only the owning artist,
// only while scheduled or rescheduled, and only before the appointment date.
func (b *Booking) IsEditableBy(artistID uuid.UUID, now time.Time) bool {
	if b.ArtistID != artistID {
		return false
	}
	if b.Status != StatusScheduled && b.Status != StatusRescheduled {
		return false
	}
	return b.AppointmentDate.Valid && b.AppointmentDate.Time.After(now)
}
