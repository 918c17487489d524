package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines booking data access interface
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// GetLatestPendingByPair returns the most recent still-pending booking
	// between the pair, or nil. Most recent created_at wins when more than
	// one pending row exists.
	GetLatestPendingByPair(ctx context.Context, clientID, artistID uuid.UUID) (*Booking, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]Booking, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]Booking, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int, error)
	CountByArtist(ctx context.Context, artistID uuid.UUID) (int, error)

	// UpdateRequestDetails rewrites the request-phase fields of a pending
	// booking. Conditional on version.
	UpdateRequestDetails(ctx context.Context, b *Booking) error
	// UpdateAppointment rewrites status plus all appointment fields.
	// Conditional on version.
	UpdateAppointment(ctx context.Context, b *Booking) error
	// UpdateStatus writes only the status. Conditional on version.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int) error

	// ExpireStaleRequests bulk-expires pending bookings without an
	// appointment date created before cutoff. Returns affected rows.
	ExpireStaleRequests(ctx context.Context, cutoff time.Time) (int64, error)
	// CompletePastAppointments bulk-completes scheduled/rescheduled bookings
	// whose appointment date falls before the given day start. Returns
	// affected rows.
	CompletePastAppointments(ctx context.Context, dayStart time.Time) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `
	id, client_id, artist_id, status, subject,
	style, body_area, size_category, color_preference, meaning,
	budget_min, budget_max, reference_images,
	appointment_date, appointment_duration, deposit_amount, total_amount, artist_notes,
	version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, client_id, artist_id, status, subject,
			style, body_area, size_category, color_preference, meaning,
			budget_min, budget_max, reference_images,
			appointment_date, appointment_duration, deposit_amount, total_amount, artist_notes,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16, $17, $18,
			1, NOW(), NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ClientID, b.ArtistID, b.Status, b.Subject,
		b.Style, b.BodyArea, b.SizeCategory, b.ColorPreference, b.Meaning,
		b.BudgetMin, b.BudgetMax, b.ReferenceImages,
		b.AppointmentDate, b.DurationMinutes, b.DepositAmount, b.TotalAmount, b.ArtistNotes,
	)
	if err != nil {
		return fmt.Errorf("booking repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetLatestPendingByPair(ctx context.Context, clientID, artistID uuid.UUID) (*Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE client_id = $1 AND artist_id = $2 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, clientID, artistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE client_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, clientID, limit, offset)
	return bookings, err
}

func (r *repository) ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE artist_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, artistID, limit, offset)
	return bookings, err
}

func (r *repository) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE client_id = $1`, clientID)
	return count, err
}

func (r *repository) CountByArtist(ctx context.Context, artistID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE artist_id = $1`, artistID)
	return count, err
}

func (r *repository) UpdateRequestDetails(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings SET
			subject = $3, style = $4, body_area = $5, size_category = $6,
			color_preference = $7, meaning = $8, budget_min = $9, budget_max = $10,
			reference_images = $11,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		b.ID, b.Version,
		b.Subject, b.Style, b.BodyArea, b.SizeCategory,
		b.ColorPreference, b.Meaning, b.BudgetMin, b.BudgetMax,
		b.ReferenceImages,
	)
	if err != nil {
		return fmt.Errorf("booking repository update request details: %w", err)
	}
	return checkConflict(result)
}

func (r *repository) UpdateAppointment(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings SET
			status = $3, subject = $4,
			appointment_date = $5, appointment_duration = $6,
			deposit_amount = $7, total_amount = $8, artist_notes = $9,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		b.ID, b.Version,
		b.Status, b.Subject,
		b.AppointmentDate, b.DurationMinutes,
		b.DepositAmount, b.TotalAmount, b.ArtistNotes,
	)
	if err != nil {
		return fmt.Errorf("booking repository update appointment: %w", err)
	}
	return checkConflict(result)
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int) error {
	query := `
		UPDATE bookings SET
			status = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, version, status)
	if err != nil {
		return fmt.Errorf("booking repository update status: %w", err)
	}
	return checkConflict(result)
}

func (r *repository) ExpireStaleRequests(ctx context.Context, cutoff time.Time) (int64, error) {
	// A request is distinguished from a scheduled appointment purely by the
	// absence of a date; bookings with a date await artist action, not expiry.
	query := `
		UPDATE bookings SET
			status = 'expired', version = version + 1, updated_at = NOW()
		WHERE status = 'pending' AND appointment_date IS NULL AND created_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func (r *repository) CompletePastAppointments(ctx context.Context, dayStart time.Time) (int64, error) {
	// Strict date-only comparison: anything before today's midnight is done,
	// an appointment dated today stays untouched until the day rolls over.
	query := `
		UPDATE bookings SET
			status = 'completed', version = version + 1, updated_at = NOW()
		WHERE status IN ('scheduled', 'rescheduled')
		  AND appointment_date IS NOT NULL
		  AND appointment_date < $1
	`
	result, err := r.db.ExecContext(ctx, query, dayStart)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func checkConflict(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}
