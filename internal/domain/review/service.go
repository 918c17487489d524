package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/booking"
)

// BookingResolver is the slice of the booking service the review flow needs.
type BookingResolver interface {
	GetForUser(ctx context.Context, userID, bookingID uuid.UUID) (*booking.Booking, error)
	CompletePast(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
}

// Store is the slice of the repository the service needs. *Repository
// satisfies it.
type Store interface {
	Create(ctx context.Context, review *Review) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Review, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]Review, error)
	CountByArtist(ctx context.Context, artistID uuid.UUID) (int, error)
	GetAverageRating(ctx context.Context, artistID uuid.UUID) (float64, error)
	GetRatingDistribution(ctx context.Context, artistID uuid.UUID) (map[int]int, error)
}

// Service handles review business logic
type Service struct {
	repo     Store
	bookings BookingResolver
}

// NewService creates review service
func NewService(repo Store, bookings BookingResolver) *Service {
	return &Service{repo: repo, bookings: bookings}
}

// Create creates a review for a completed booking. A review against a
// scheduled booking whose appointment date already passed completes the
// booking first, so reviews never have to wait for the nightly sweep.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, req *CreateRequest) (*Review, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, booking.ErrBookingNotFound
	}

	b, err := s.bookings.GetForUser(ctx, clientID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, ErrNotBookingClient
	}

	switch b.Status {
	case booking.StatusCompleted:
		// nothing to do
	case booking.StatusScheduled, booking.StatusRescheduled:
		b, err = s.bookings.CompletePast(ctx, bookingID)
		if err != nil {
			return nil, ErrBookingNotCompleted
		}
	default:
		return nil, ErrBookingNotCompleted
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now()
	rev := &Review{
		ID:        uuid.New(),
		BookingID: b.ID,
		ArtistID:  b.ArtistID,
		ClientID:  clientID,
		Rating:    req.Rating,
		Comment:   sql.NullString{String: req.Comment, Valid: req.Comment != ""},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// Summary returns the rating overview for an artist
func (s *Service) Summary(ctx context.Context, artistID uuid.UUID) (*ArtistRatingSummary, error) {
	avg, err := s.repo.GetAverageRating(ctx, artistID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	dist, err := s.repo.GetRatingDistribution(ctx, artistID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListByArtist(ctx, artistID, 3, 0)
	if err != nil {
		return nil, err
	}

	recentResp := make([]*ReviewResponse, len(recent))
	for i := range recent {
		recentResp[i] = recent[i].ToResponse()
	}

	return &ArtistRatingSummary{
		AverageRating: avg,
		TotalReviews:  total,
		Distribution:  dist,
		RecentReviews: recentResp,
	}, nil
}
