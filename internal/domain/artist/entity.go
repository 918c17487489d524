package artist

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profile represents an artist profile (matches artist_profiles table)
type Profile struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`

	Bio        sql.NullString `db:"bio"`
	City       sql.NullString `db:"city"`
	StudioName sql.NullString `db:"studio_name"`

	// Tattoo styles offered, e.g. fine_line, traditional, realism
	Styles pq.StringArray `db:"styles"`

	HourlyRate    sql.NullFloat64 `db:"hourly_rate"`
	MinimumCharge sql.NullFloat64 `db:"minimum_charge"`

	// Portfolio image URLs in display order
	PortfolioImages pq.StringArray `db:"portfolio_images"`

	InstagramHandle sql.NullString `db:"instagram_handle"`

	AcceptingBookings bool `db:"accepting_bookings"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ListedProfile is a profile joined with the owning user for directory listings
type ListedProfile struct {
	Profile
	DisplayName string         `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
}
