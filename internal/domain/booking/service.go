package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
)

// Notifier delivers the appointment-scheduled payload to the client.
// Delivery failures never roll back the booking write.
type Notifier interface {
	AppointmentScheduled(ctx context.Context, clientID, artistID, bookingID uuid.UUID) error
}

// Service handles booking business logic
type Service struct {
	repo     Repository
	notifier Notifier
	clk      clock.Clock
}

// NewService creates booking service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	return &Service{repo: repo, notifier: notifier, clk: clk}
}

// CreateRequest creates a client-initiated booking request (status pending).
// An existing pending booking for the pair is reused and its details
// rewritten instead of inserting a duplicate, keeping at most one active
// request per (client, artist) pair.
func (s *Service) CreateRequest(ctx context.Context, clientID uuid.UUID, req *CreateRequestRequest) (*Booking, error) {
	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	details := RequestDetails{
		Style:           nullString(req.Style),
		BodyArea:        nullString(req.BodyArea),
		SizeCategory:    nullString(req.SizeCategory),
		ColorPreference: nullString(req.ColorPreference),
		Meaning:         nullString(req.Meaning),
		BudgetMin:       nullFloat(req.BudgetMin),
		BudgetMax:       nullFloat(req.BudgetMax),
		ReferenceImages: req.ReferenceImages,
	}

	existing, err := s.repo.GetLatestPendingByPair(ctx, clientID, artistID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Subject = req.Subject
		existing.RequestDetails = details
		if err := s.repo.UpdateRequestDetails(ctx, existing); err != nil {
			return nil, err
		}
		existing.Version++
		existing.UpdatedAt = s.clk.Now()
		return existing, nil
	}

	b := &Booking{
		ID:             uuid.New(),
		ClientID:       clientID,
		ArtistID:       artistID,
		Status:         StatusPending,
		Subject:        req.Subject,
		RequestDetails: details,
		Version:        1,
		CreatedAt:      s.clk.Now(),
		UpdatedAt:      s.clk.Now(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ScheduleAppointment is the artist-initiated create/update. The most recent
// pending booking between the pair is updated in place and moved to
// scheduled; when none exists a new scheduled booking is inserted directly.
func (s *Service) ScheduleAppointment(ctx context.Context, artistID uuid.UUID, req *ScheduleAppointmentRequest) (*Booking, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	apptAt, err := req.AppointmentTime()
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !apptAt.After(s.clk.Now()) {
		return nil, ErrDateInPast
	}

	details := AppointmentDetails{
		AppointmentDate: sql.NullTime{Time: apptAt, Valid: true},
		DurationMinutes: sql.NullInt32{Int32: int32(req.DurationMinutes), Valid: true},
		DepositAmount:   sql.NullFloat64{Float64: req.DepositAmount, Valid: true},
		TotalAmount:     sql.NullFloat64{Float64: req.TotalAmount, Valid: true},
		ArtistNotes:     nullString(req.ArtistNotes),
	}

	b, err := s.repo.GetLatestPendingByPair(ctx, clientID, artistID)
	if err != nil {
		return nil, err
	}

	if b != nil {
		next, err := Transition(b.Status, TriggerSchedule)
		if err != nil {
			return nil, err
		}
		b.Status = next
		b.Subject = req.Subject
		b.AppointmentDetails = details
		if err := s.repo.UpdateAppointment(ctx, b); err != nil {
			return nil, err
		}
		b.Version++
		b.UpdatedAt = s.clk.Now()
	} else {
		b = &Booking{
			ID:                 uuid.New(),
			ClientID:           clientID,
			ArtistID:           artistID,
			Status:             StatusScheduled,
			Subject:            req.Subject,
			AppointmentDetails: details,
			Version:            1,
			CreatedAt:          s.clk.Now(),
			UpdatedAt:          s.clk.Now(),
		}
		if err := s.repo.Create(ctx, b); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		if err := s.notifier.AppointmentScheduled(ctx, clientID, artistID, b.ID); err != nil {
			log.Warn().Err(err).
				Str("booking_id", b.ID.String()).
				Msg("Failed to notify client about scheduled appointment")
		}
	}

	return b, nil
}

// Cancel moves a booking to cancelled on behalf of either participant.
// Missing bookings and repeat cancels are treated as already satisfied;
// completed and expired bookings reject the attempt.
func (s *Service) Cancel(ctx context.Context, actorID, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		// Idempotent from the caller's perspective
		return nil, nil
	}
	if !b.HasParticipant(actorID) {
		return nil, ErrNotParticipant
	}

	if b.Status == StatusCancelled {
		return b, nil
	}

	next, err := Transition(b.Status, TriggerCancel)
	if err != nil {
		return nil, ErrBookingClosed
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, next, b.Version); err != nil {
		return nil, err
	}
	b.Status = next
	b.Version++
	b.UpdatedAt = s.clk.Now()
	return b, nil
}

// EditAppointment updates a subset of appointment details. A change to the
// calendar day or the time of day transitions scheduled to rescheduled in
// the same write; edits to other fields leave the status alone.
func (s *Service) EditAppointment(ctx context.Context, artistID, bookingID uuid.UUID, req *EditAppointmentRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.ArtistID != artistID {
		return nil, ErrNotBookingArtist
	}
	if !b.IsEditableBy(artistID, s.clk.Now()) {
		return nil, ErrNotEditable
	}

	// Normalize old values to date-only and time-only strings so the
	// comparison is immune to timezone and seconds noise.
	oldDate := b.AppointmentDate.Time.Format(dateLayout)
	oldTime := b.AppointmentDate.Time.Format(timeLayout)

	newDate, newTime := oldDate, oldTime
	if req.Date != nil {
		newDate = *req.Date
	}
	if req.Time != nil {
		newTime = *req.Time
	}

	apptAt, err := time.Parse(dateLayout+" "+timeLayout, newDate+" "+newTime)
	if err != nil {
		return nil, ErrInvalidDate
	}

	dateChanged := newDate != oldDate || newTime != oldTime
	if dateChanged && !apptAt.After(s.clk.Now()) {
		return nil, ErrDateInPast
	}

	b.AppointmentDate = sql.NullTime{Time: apptAt, Valid: true}
	if req.DurationMinutes != nil {
		b.DurationMinutes = sql.NullInt32{Int32: int32(*req.DurationMinutes), Valid: true}
	}
	if req.DepositAmount != nil {
		b.DepositAmount = sql.NullFloat64{Float64: *req.DepositAmount, Valid: true}
	}
	if req.ArtistNotes != nil {
		b.ArtistNotes = nullString(*req.ArtistNotes)
	}

	if dateChanged {
		next, err := Transition(b.Status, TriggerReschedule)
		if err != nil {
			return nil, err
		}
		b.Status = next
	}

	if err := s.repo.UpdateAppointment(ctx, b); err != nil {
		return nil, err
	}
	b.Version++
	b.UpdatedAt = s.clk.Now()
	return b, nil
}

// CompletePast transitions a scheduled booking to completed when its
// appointment date has already passed (date-only comparison). Used by the
// review flow so a review against a past-due appointment lands on a
// completed booking even before the sweep has run.
func (s *Service) CompletePast(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.Status == StatusCompleted {
		return b, nil
	}
	if !b.HasAppointment() {
		return nil, ErrInvalidTransition
	}
	if !b.AppointmentDate.Time.Before(clock.StartOfDay(s.clk.Now())) {
		return nil, ErrInvalidTransition
	}

	next, err := Transition(b.Status, TriggerComplete)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, b.ID, next, b.Version); err != nil {
		return nil, err
	}
	b.Status = next
	b.Version++
	b.UpdatedAt = s.clk.Now()
	return b, nil
}

// GetForUser returns a booking visible to the given participant
func (s *Service) GetForUser(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !b.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return b, nil
}

// ListForUser returns the user's bookings on their side of the marketplace
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, role string, limit, offset int) ([]Booking, int, error) {
	if role == "artist" {
		bookings, err := s.repo.ListByArtist(ctx, userID, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.repo.CountByArtist(ctx, userID)
		return bookings, total, err
	}
	bookings, err := s.repo.ListByClient(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByClient(ctx, userID)
	return bookings, total, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
