package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
)

func seedRequestAge(repo *fakeRepo, age time.Duration) *Booking {
	b := &Booking{
		ID:        uuid.New(),
		ClientID:  uuid.New(),
		ArtistID:  uuid.New(),
		Status:    StatusPending,
		Subject:   "blackwork shoulder piece",
		Version:   1,
		CreatedAt: testNow.Add(-age),
		UpdatedAt: testNow.Add(-age),
	}
	repo.put(b)
	return b
}

func TestSweepExpiresOnlyStaleDatelessRequests(t *testing.T) {
	repo := newFakeRepo()
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)

	stale := seedRequestAge(repo, 16*24*time.Hour)
	fresh := seedRequestAge(repo, 14*24*time.Hour)

	// Old but already scheduled: has a date, must survive
	withDate := seedRequestAge(repo, 20*24*time.Hour)
	repo.bookings[withDate.ID].AppointmentDate = sql.NullTime{Time: testNow.Add(240 * time.Hour), Valid: true}

	count, err := sweeper.ExpireStaleRequests(context.Background())
	if err != nil {
		t.Fatalf("ExpireStaleRequests: %v", err)
	}
	if count != 1 {
		t.Errorf("expired %d, want 1", count)
	}
	if repo.bookings[stale.ID].Status != StatusExpired {
		t.Errorf("stale request status = %s, want expired", repo.bookings[stale.ID].Status)
	}
	if repo.bookings[fresh.ID].Status != StatusPending {
		t.Errorf("fresh request status = %s, want still pending", repo.bookings[fresh.ID].Status)
	}
	if repo.bookings[withDate.ID].Status != StatusPending {
		t.Errorf("dated request status = %s, want untouched", repo.bookings[withDate.ID].Status)
	}
}

func TestSweepCompletesPastDueAppointmentsDateOnly(t *testing.T) {
	repo := newFakeRepo()
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)

	yesterday := seedBooking(repo, StatusScheduled, testNow.Add(-24*time.Hour))
	rescheduledPast := seedBooking(repo, StatusRescheduled, testNow.Add(-48*time.Hour))

	// Earlier today: the calendar day has not passed, so it stays scheduled
	// even though the clock time is behind now.
	earlierToday := seedBooking(repo, StatusScheduled, testNow.Add(-3*time.Hour))
	tomorrow := seedBooking(repo, StatusScheduled, testNow.Add(24*time.Hour))

	count, err := sweeper.CompletePastAppointments(context.Background())
	if err != nil {
		t.Fatalf("CompletePastAppointments: %v", err)
	}
	if count != 2 {
		t.Errorf("completed %d, want 2", count)
	}
	if got := repo.bookings[yesterday.ID].Status; got != StatusCompleted {
		t.Errorf("yesterday = %s, want completed", got)
	}
	if got := repo.bookings[rescheduledPast.ID].Status; got != StatusCompleted {
		t.Errorf("rescheduled past = %s, want completed", got)
	}
	if got := repo.bookings[earlierToday.ID].Status; got != StatusScheduled {
		t.Errorf("earlier today = %s, want still scheduled", got)
	}
	if got := repo.bookings[tomorrow.ID].Status; got != StatusScheduled {
		t.Errorf("tomorrow = %s, want still scheduled", got)
	}
}

func TestSweepRunIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)

	seedRequestAge(repo, 16*24*time.Hour)
	seedBooking(repo, StatusScheduled, testNow.Add(-24*time.Hour))

	first := sweeper.Run(context.Background())
	if !first.Success {
		t.Fatalf("first run failed: %s", first.Error)
	}
	if first.ExpiredCount != 1 || first.CompletedCount != 1 || first.TotalProcessed != 2 {
		t.Errorf("first run counts = %d/%d/%d, want 1/1/2",
			first.ExpiredCount, first.CompletedCount, first.TotalProcessed)
	}

	second := sweeper.Run(context.Background())
	if !second.Success {
		t.Fatalf("second run failed: %s", second.Error)
	}
	if second.TotalProcessed != 0 {
		t.Errorf("second run processed %d rows, want 0", second.TotalProcessed)
	}
}

func TestSweepRunPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failExpire = errors.New("deadlock detected")
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)

	seedBooking(repo, StatusScheduled, testNow.Add(-24*time.Hour))

	result := sweeper.Run(context.Background())
	if result.Success {
		t.Error("run with failing expire job reported success")
	}
	if result.Error == "" {
		t.Error("expected error detail in result")
	}
	// The completion job still ran
	if result.CompletedCount != 1 {
		t.Errorf("completed = %d, want 1 despite expire failure", result.CompletedCount)
	}
}

func TestSweepRunBothFail(t *testing.T) {
	repo := newFakeRepo()
	repo.failExpire = errors.New("connection reset")
	repo.failComplete = errors.New("connection reset")
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)

	result := sweeper.Run(context.Background())
	if result.Success {
		t.Error("run with both jobs failing reported success")
	}
	if result.TotalProcessed != 0 {
		t.Errorf("processed = %d, want 0", result.TotalProcessed)
	}
}

func TestSweepResultTimestampComesFromClock(t *testing.T) {
	repo := newFakeRepo()
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)

	result := sweeper.Run(context.Background())
	if !result.Timestamp.Equal(testNow) {
		t.Errorf("timestamp = %s, want %s", result.Timestamp, testNow)
	}
}
