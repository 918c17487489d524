package artist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines artist profile data access interface
type Repository interface {
	Upsert(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*ListedProfile, int, error)
	UpdatePortfolio(ctx context.Context, userID uuid.UUID, images []string) error
}

// ListFilter narrows directory listings
type ListFilter struct {
	City          string
	Style         string
	AcceptingOnly bool
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new artist repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Upsert inserts the profile or updates the existing row for the user
func (r *repository) Upsert(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO artist_profiles (
			id, user_id, bio, city, studio_name, styles,
			hourly_rate, minimum_charge, portfolio_images,
			instagram_handle, accepting_bookings, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			city = EXCLUDED.city,
			studio_name = EXCLUDED.studio_name,
			styles = EXCLUDED.styles,
			hourly_rate = EXCLUDED.hourly_rate,
			minimum_charge = EXCLUDED.minimum_charge,
			instagram_handle = EXCLUDED.instagram_handle,
			accepting_bookings = EXCLUDED.accepting_bookings,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Bio,
		profile.City,
		profile.StudioName,
		profile.Styles,
		profile.HourlyRate,
		profile.MinimumCharge,
		profile.PortfolioImages,
		profile.InstagramHandle,
		profile.AcceptingBookings,
	)
	if err != nil {
		return fmt.Errorf("artist repository upsert: %w", err)
	}

	return nil
}

// GetByUserID returns the profile for the user, nil when no row matches
func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `SELECT * FROM artist_profiles WHERE user_id = $1`
	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

// List returns directory listings joined with the owning user
func (r *repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*ListedProfile, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argN := 1

	if filter.City != "" {
		where += fmt.Sprintf(" AND p.city ILIKE $%d", argN)
		args = append(args, filter.City)
		argN++
	}
	if filter.Style != "" {
		where += fmt.Sprintf(" AND $%d = ANY(p.styles)", argN)
		args = append(args, filter.Style)
		argN++
	}
	if filter.AcceptingOnly {
		where += " AND p.accepting_bookings = true"
	}

	countQuery := `SELECT COUNT(*) FROM artist_profiles p ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.*, u.display_name, u.avatar_url
		FROM artist_profiles p
		JOIN users u ON u.id = p.user_id
		%s
		ORDER BY p.updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argN, argN+1)
	args = append(args, limit, offset)

	var profiles []*ListedProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// UpdatePortfolio replaces the portfolio image list
func (r *repository) UpdatePortfolio(ctx context.Context, userID uuid.UUID, images []string) error {
	query := `UPDATE artist_profiles SET portfolio_images = $2, updated_at = NOW() WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, pq.StringArray(images))
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}
