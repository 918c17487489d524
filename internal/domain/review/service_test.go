package review

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/booking"
)

type fakeStore struct {
	byBooking map[uuid.UUID]*Review
	created   []*Review
}

func newFakeStore() *fakeStore {
	return &fakeStore{byBooking: make(map[uuid.UUID]*Review)}
}

func (s *fakeStore) Create(ctx context.Context, review *Review) error {
	s.byBooking[review.BookingID] = review
	s.created = append(s.created, review)
	return nil
}

func (s *fakeStore) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Review, error) {
	return s.byBooking[bookingID], nil
}

func (s *fakeStore) ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]Review, error) {
	return nil, nil
}

func (s *fakeStore) CountByArtist(ctx context.Context, artistID uuid.UUID) (int, error) {
	return len(s.created), nil
}

func (s *fakeStore) GetAverageRating(ctx context.Context, artistID uuid.UUID) (float64, error) {
	return 0, nil
}

func (s *fakeStore) GetRatingDistribution(ctx context.Context, artistID uuid.UUID) (map[int]int, error) {
	return map[int]int{}, nil
}

type fakeResolver struct {
	booking       *booking.Booking
	completeCalls int
	completeErr   error
}

func (r *fakeResolver) GetForUser(ctx context.Context, userID, bookingID uuid.UUID) (*booking.Booking, error) {
	if r.booking == nil || r.booking.ID != bookingID {
		return nil, booking.ErrBookingNotFound
	}
	if !r.booking.HasParticipant(userID) {
		return nil, booking.ErrNotParticipant
	}
	return r.booking, nil
}

func (r *fakeResolver) CompletePast(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	r.completeCalls++
	if r.completeErr != nil {
		return nil, r.completeErr
	}
	r.booking.Status = booking.StatusCompleted
	return r.booking, nil
}

func testBooking(status booking.Status) *booking.Booking {
	return &booking.Booking{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		ArtistID: uuid.New(),
		Status:   status,
		Subject:  "neo-traditional fox",
	}
}

func TestCreateReviewOnCompletedBooking(t *testing.T) {
	store := newFakeStore()
	b := testBooking(booking.StatusCompleted)
	svc := NewService(store, &fakeResolver{booking: b})

	rev, err := svc.Create(context.Background(), b.ClientID, &CreateRequest{
		BookingID: b.ID.String(),
		Rating:    5,
		Comment:   "clean lines, great aftercare advice",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rev.ArtistID != b.ArtistID || rev.ClientID != b.ClientID {
		t.Error("review parties do not match booking")
	}
	if rev.Rating != 5 {
		t.Errorf("rating = %d", rev.Rating)
	}
}

func TestCreateReviewCompletesPastDueBooking(t *testing.T) {
	store := newFakeStore()
	b := testBooking(booking.StatusScheduled)
	resolver := &fakeResolver{booking: b}
	svc := NewService(store, resolver)

	rev, err := svc.Create(context.Background(), b.ClientID, &CreateRequest{
		BookingID: b.ID.String(),
		Rating:    4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resolver.completeCalls != 1 {
		t.Errorf("CompletePast calls = %d, want 1", resolver.completeCalls)
	}
	if rev.BookingID != b.ID {
		t.Error("review not linked to booking")
	}
}

func TestCreateReviewRejectsNotYetDueBooking(t *testing.T) {
	store := newFakeStore()
	b := testBooking(booking.StatusScheduled)
	resolver := &fakeResolver{booking: b, completeErr: booking.ErrInvalidTransition}
	svc := NewService(store, resolver)

	_, err := svc.Create(context.Background(), b.ClientID, &CreateRequest{
		BookingID: b.ID.String(),
		Rating:    4,
	})
	if !errors.Is(err, ErrBookingNotCompleted) {
		t.Errorf("err = %v, want ErrBookingNotCompleted", err)
	}
}

func TestCreateReviewRejectsOpenStatuses(t *testing.T) {
	for _, status := range []booking.Status{booking.StatusPending, booking.StatusExpired, booking.StatusCancelled} {
		store := newFakeStore()
		b := testBooking(status)
		svc := NewService(store, &fakeResolver{booking: b})

		_, err := svc.Create(context.Background(), b.ClientID, &CreateRequest{
			BookingID: b.ID.String(),
			Rating:    3,
		})
		if !errors.Is(err, ErrBookingNotCompleted) {
			t.Errorf("%s: err = %v, want ErrBookingNotCompleted", status, err)
		}
	}
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	store := newFakeStore()
	b := testBooking(booking.StatusCompleted)
	svc := NewService(store, &fakeResolver{booking: b})

	req := &CreateRequest{BookingID: b.ID.String(), Rating: 5}
	if _, err := svc.Create(context.Background(), b.ClientID, req); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.Create(context.Background(), b.ClientID, req); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("second review: err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestCreateReviewRejectsArtistAsAuthor(t *testing.T) {
	store := newFakeStore()
	b := testBooking(booking.StatusCompleted)
	svc := NewService(store, &fakeResolver{booking: b})

	_, err := svc.Create(context.Background(), b.ArtistID, &CreateRequest{
		BookingID: b.ID.String(),
		Rating:    5,
	})
	if !errors.Is(err, ErrNotBookingClient) {
		t.Errorf("err = %v, want ErrNotBookingClient", err)
	}
}

func TestCreateReviewUnknownBooking(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeResolver{})

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		BookingID: uuid.New().String(),
		Rating:    5,
	})
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Errorf("err = %v, want ErrBookingNotFound", err)
	}
}
