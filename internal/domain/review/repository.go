package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles review database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new review repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new review
func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, artist_id, client_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.ArtistID,
		review.ClientID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	return err
}

// GetByID returns a review by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	query := `SELECT * FROM reviews WHERE id = $1`
	var review Review
	err := r.db.GetContext(ctx, &review, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &review, err
}

// GetByBookingID returns the review for a booking, nil when none exists
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Review, error) {
	query := `SELECT * FROM reviews WHERE booking_id = $1`
	var review Review
	err := r.db.GetContext(ctx, &review, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &review, err
}

// ListByArtist returns reviews for an artist, newest first
func (r *Repository) ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]Review, error) {
	query := `
		SELECT * FROM reviews
		WHERE artist_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var reviews []Review
	err := r.db.SelectContext(ctx, &reviews, query, artistID, limit, offset)
	return reviews, err
}

// CountByArtist returns total reviews for an artist
func (r *Repository) CountByArtist(ctx context.Context, artistID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE artist_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, artistID)
	return count, err
}

// GetAverageRating returns average rating for an artist
func (r *Repository) GetAverageRating(ctx context.Context, artistID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE artist_id = $1`
	var avg float64
	err := r.db.GetContext(ctx, &avg, query, artistID)
	return avg, err
}

// GetRatingDistribution returns count of each rating for an artist
func (r *Repository) GetRatingDistribution(ctx context.Context, artistID uuid.UUID) (map[int]int, error) {
	query := `
		SELECT rating, COUNT(*) as count
		FROM reviews
		WHERE artist_id = $1
		GROUP BY rating
	`
	type ratingCount struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}
	var counts []ratingCount
	err := r.db.SelectContext(ctx, &counts, query, artistID)
	if err != nil {
		return nil, err
	}

	dist := make(map[int]int)
	for i := 1; i <= 5; i++ {
		dist[i] = 0
	}
	for _, c := range counts {
		dist[c.Rating] = c.Count
	}
	return dist, nil
}
