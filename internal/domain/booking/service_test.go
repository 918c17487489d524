package booking

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
)

// fakeRepo is an in-memory Repository with the same version-conflict
// semantics as the SQL implementation.
type fakeRepo struct {
	bookings map[uuid.UUID]*Booking

	failExpire   error
	failComplete error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *fakeRepo) put(b *Booking) *Booking {
	cp := *b
	r.bookings[b.ID] = &cp
	return b
}

func (r *fakeRepo) Create(ctx context.Context, b *Booking) error {
	r.put(b)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetLatestPendingByPair(ctx context.Context, clientID, artistID uuid.UUID) (*Booking, error) {
	var latest *Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID && b.ArtistID == artistID && b.Status == StatusPending {
			if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
				latest = b
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]Booking, error) {
	var out []Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) ListByArtist(ctx context.Context, artistID uuid.UUID, limit, offset int) ([]Booking, error) {
	var out []Booking
	for _, b := range r.bookings {
		if b.ArtistID == artistID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	n := 0
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountByArtist(ctx context.Context, artistID uuid.UUID) (int, error) {
	n := 0
	for _, b := range r.bookings {
		if b.ArtistID == artistID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) conditionalWrite(id uuid.UUID, version int, apply func(*Booking)) error {
	stored, ok := r.bookings[id]
	if !ok || stored.Version != version {
		return ErrVersionConflict
	}
	apply(stored)
	stored.Version++
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) UpdateRequestDetails(ctx context.Context, b *Booking) error {
	return r.conditionalWrite(b.ID, b.Version, func(stored *Booking) {
		stored.Subject = b.Subject
		stored.RequestDetails = b.RequestDetails
	})
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, b *Booking) error {
	return r.conditionalWrite(b.ID, b.Version, func(stored *Booking) {
		stored.Status = b.Status
		stored.Subject = b.Subject
		stored.AppointmentDetails = b.AppointmentDetails
	})
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int) error {
	return r.conditionalWrite(id, version, func(stored *Booking) {
		stored.Status = status
	})
}

func (r *fakeRepo) ExpireStaleRequests(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.failExpire != nil {
		return 0, r.failExpire
	}
	var n int64
	for _, b := range r.bookings {
		if b.Status == StatusPending && !b.AppointmentDate.Valid && b.CreatedAt.Before(cutoff) {
			b.Status = StatusExpired
			b.Version++
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CompletePastAppointments(ctx context.Context, dayStart time.Time) (int64, error) {
	if r.failComplete != nil {
		return 0, r.failComplete
	}
	var n int64
	for _, b := range r.bookings {
		if (b.Status == StatusScheduled || b.Status == StatusRescheduled) &&
			b.AppointmentDate.Valid && b.AppointmentDate.Time.Before(dayStart) {
			b.Status = StatusCompleted
			b.Version++
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	calls int
	err   error
}

func (n *recordingNotifier) AppointmentScheduled(ctx context.Context, clientID, artistID, bookingID uuid.UUID) error {
	n.calls++
	return n.err
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository, notifier Notifier) *Service {
	return NewService(repo, notifier, clock.Fixed(testNow))
}

func seedBooking(repo *fakeRepo, status Status, apptAt time.Time) *Booking {
	b := &Booking{
		ID:        uuid.New(),
		ClientID:  uuid.New(),
		ArtistID:  uuid.New(),
		Status:    status,
		Subject:   "dragon sleeve",
		Version:   1,
		CreatedAt: testNow.Add(-48 * time.Hour),
		UpdatedAt: testNow.Add(-48 * time.Hour),
	}
	if !apptAt.IsZero() {
		b.AppointmentDate = sql.NullTime{Time: apptAt, Valid: true}
		b.DurationMinutes = sql.NullInt32{Int32: 120, Valid: true}
		b.TotalAmount = sql.NullFloat64{Float64: 400, Valid: true}
		b.DepositAmount = sql.NullFloat64{Float64: 100, Valid: true}
	}
	repo.put(b)
	return b
}

func TestCreateRequestReusesPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	existing := seedBooking(repo, StatusPending, time.Time{})

	req := &CreateRequestRequest{
		ArtistID: existing.ArtistID.String(),
		Subject:  "koi rework",
		Style:    "japanese",
	}
	got, err := svc.CreateRequest(context.Background(), existing.ClientID, req)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if got.ID != existing.ID {
		t.Errorf("expected pending booking %s to be reused, got new id %s", existing.ID, got.ID)
	}
	if got.Subject != "koi rework" {
		t.Errorf("subject = %q, want rewritten", got.Subject)
	}
	if got.Version != existing.Version+1 {
		t.Errorf("version = %d, want %d", got.Version, existing.Version+1)
	}
	if len(repo.bookings) != 1 {
		t.Errorf("repo has %d bookings, want 1", len(repo.bookings))
	}
}

func TestCreateRequestInsertsWhenNoPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	req := &CreateRequestRequest{
		ArtistID: uuid.New().String(),
		Subject:  "fine line fern on forearm",
	}
	got, err := svc.CreateRequest(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
	if got.Version != 1 {
		t.Errorf("version = %d, want 1", got.Version)
	}
}

func TestScheduleAppointmentReusesPending(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)

	existing := seedBooking(repo, StatusPending, time.Time{})

	req := &ScheduleAppointmentRequest{
		ClientID:        existing.ClientID.String(),
		Subject:         "dragon sleeve session 1",
		Date:            "2026-03-20",
		Time:            "14:00",
		DurationMinutes: 180,
		TotalAmount:     600,
		DepositAmount:   150,
	}
	got, err := svc.ScheduleAppointment(context.Background(), existing.ArtistID, req)
	if err != nil {
		t.Fatalf("ScheduleAppointment: %v", err)
	}
	if got.ID != existing.ID {
		t.Errorf("expected pending booking to be promoted, got new id")
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %s, want scheduled", got.Status)
	}
	if !got.AppointmentDate.Valid || got.AppointmentDate.Time.Format("2006-01-02 15:04") != "2026-03-20 14:00" {
		t.Errorf("appointment date not written: %+v", got.AppointmentDate)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
}

func TestScheduleAppointmentInsertsScheduledWhenNoPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	req := &ScheduleAppointmentRequest{
		ClientID:        uuid.New().String(),
		Subject:         "walk-in consultation",
		Date:            "2026-03-11",
		Time:            "10:30",
		DurationMinutes: 60,
		TotalAmount:     150,
		DepositAmount:   50,
	}
	got, err := svc.ScheduleAppointment(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("ScheduleAppointment: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %s, want scheduled", got.Status)
	}
}

func TestScheduleAppointmentRejectsPastDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	req := &ScheduleAppointmentRequest{
		ClientID:        uuid.New().String(),
		Subject:         "back piece outline",
		Date:            "2026-03-01",
		Time:            "10:00",
		DurationMinutes: 120,
		TotalAmount:     500,
		DepositAmount:   100,
	}
	if _, err := svc.ScheduleAppointment(context.Background(), uuid.New(), req); !errors.Is(err, ErrDateInPast) {
		t.Errorf("err = %v, want ErrDateInPast", err)
	}
}

func TestScheduleAppointmentNotifierFailureDoesNotFail(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{err: errors.New("redis down")}
	svc := newTestService(repo, notifier)

	req := &ScheduleAppointmentRequest{
		ClientID:        uuid.New().String(),
		Subject:         "cover-up consult",
		Date:            "2026-04-01",
		Time:            "09:00",
		DurationMinutes: 90,
		TotalAmount:     300,
		DepositAmount:   75,
	}
	if _, err := svc.ScheduleAppointment(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("ScheduleAppointment: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
}

func TestCancelUnknownBookingIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	got, err := svc.Cancel(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil booking for unknown id")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusScheduled, testNow.Add(72*time.Hour))

	first, err := svc.Cancel(context.Background(), b.ClientID, b.ID)
	if err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	if first.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", first.Status)
	}

	second, err := svc.Cancel(context.Background(), b.ClientID, b.ID)
	if err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	if second.Status != StatusCancelled {
		t.Errorf("repeat cancel status = %s, want cancelled", second.Status)
	}
	if second.Version != first.Version {
		t.Errorf("repeat cancel bumped version: %d -> %d", first.Version, second.Version)
	}
}

func TestCancelRejectsNonParticipant(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusPending, time.Time{})

	if _, err := svc.Cancel(context.Background(), uuid.New(), b.ID); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("err = %v, want ErrNotParticipant", err)
	}
}

func TestCancelRejectsClosedBooking(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	for _, status := range []Status{StatusCompleted, StatusExpired} {
		b := seedBooking(repo, status, time.Time{})
		if _, err := svc.Cancel(context.Background(), b.ClientID, b.ID); !errors.Is(err, ErrBookingClosed) {
			t.Errorf("cancel %s: err = %v, want ErrBookingClosed", status, err)
		}
	}
}

func TestEditAppointmentDateChangeReschedules(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusScheduled, testNow.Add(72*time.Hour))

	newDate := "2026-03-25"
	got, err := svc.EditAppointment(context.Background(), b.ArtistID, b.ID, &EditAppointmentRequest{
		Date: &newDate,
	})
	if err != nil {
		t.Fatalf("EditAppointment: %v", err)
	}
	if got.Status != StatusRescheduled {
		t.Errorf("status = %s, want rescheduled after date change", got.Status)
	}
	if got.AppointmentDate.Time.Format("2006-01-02") != newDate {
		t.Errorf("date = %s, want %s", got.AppointmentDate.Time.Format("2006-01-02"), newDate)
	}
}

func TestEditAppointmentTimeChangeAloneReschedules(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusScheduled, testNow.Add(72*time.Hour))

	newTime := "18:30"
	got, err := svc.EditAppointment(context.Background(), b.ArtistID, b.ID, &EditAppointmentRequest{
		Time: &newTime,
	})
	if err != nil {
		t.Fatalf("EditAppointment: %v", err)
	}
	if got.Status != StatusRescheduled {
		t.Errorf("status = %s, want rescheduled after time change", got.Status)
	}
}

func TestEditAppointmentOtherFieldsKeepStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusScheduled, testNow.Add(72*time.Hour))

	deposit := 200.0
	notes := "bring the reference prints"
	got, err := svc.EditAppointment(context.Background(), b.ArtistID, b.ID, &EditAppointmentRequest{
		DepositAmount: &deposit,
		ArtistNotes:   &notes,
	})
	if err != nil {
		t.Fatalf("EditAppointment: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %s, want scheduled unchanged", got.Status)
	}
	if !got.DepositAmount.Valid || got.DepositAmount.Float64 != deposit {
		t.Errorf("deposit = %+v, want %v", got.DepositAmount, deposit)
	}
	if got.Version != b.Version+1 {
		t.Errorf("version = %d, want bumped", got.Version)
	}
}

func TestEditAppointmentEligibility(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	notes := "updated"

	// Pending booking has no appointment to edit
	pending := seedBooking(repo, StatusPending, time.Time{})
	if _, err := svc.EditAppointment(context.Background(), pending.ArtistID, pending.ID, &EditAppointmentRequest{ArtistNotes: &notes}); !errors.Is(err, ErrNotEditable) {
		t.Errorf("pending: err = %v, want ErrNotEditable", err)
	}

	// Appointment date already passed
	past := seedBooking(repo, StatusScheduled, testNow.Add(-24*time.Hour))
	if _, err := svc.EditAppointment(context.Background(), past.ArtistID, past.ID, &EditAppointmentRequest{ArtistNotes: &notes}); !errors.Is(err, ErrNotEditable) {
		t.Errorf("past date: err = %v, want ErrNotEditable", err)
	}

	// Someone else's booking
	other := seedBooking(repo, StatusScheduled, testNow.Add(24*time.Hour))
	if _, err := svc.EditAppointment(context.Background(), uuid.New(), other.ID, &EditAppointmentRequest{ArtistNotes: &notes}); !errors.Is(err, ErrNotBookingArtist) {
		t.Errorf("wrong artist: err = %v, want ErrNotBookingArtist", err)
	}
}

func TestEditAppointmentRejectsPastNewDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusScheduled, testNow.Add(72*time.Hour))

	pastDate := "2026-03-05"
	if _, err := svc.EditAppointment(context.Background(), b.ArtistID, b.ID, &EditAppointmentRequest{Date: &pastDate}); !errors.Is(err, ErrDateInPast) {
		t.Errorf("err = %v, want ErrDateInPast", err)
	}
}

func TestConcurrentEditLosesOnVersionConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusScheduled, testNow.Add(72*time.Hour))

	// First writer wins and bumps the stored version.
	notes := "session moved to the big room"
	if _, err := svc.EditAppointment(context.Background(), b.ArtistID, b.ID, &EditAppointmentRequest{ArtistNotes: &notes}); err != nil {
		t.Fatalf("first edit: %v", err)
	}

	// Second writer read version 1 before the first commit landed.
	err := repo.UpdateStatus(context.Background(), b.ID, StatusCancelled, 1)
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("stale write err = %v, want ErrVersionConflict", err)
	}

	got, _ := repo.GetByID(context.Background(), b.ID)
	if got.Status != StatusScheduled {
		t.Errorf("stale write mutated status to %s", got.Status)
	}
}

func TestCompletePast(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	// Yesterday's appointment completes
	due := seedBooking(repo, StatusScheduled, testNow.Add(-24*time.Hour))
	got, err := svc.CompletePast(context.Background(), due.ID)
	if err != nil {
		t.Fatalf("CompletePast: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}

	// Today's appointment does not, regardless of time of day
	today := seedBooking(repo, StatusScheduled, testNow.Add(-3*time.Hour))
	if _, err := svc.CompletePast(context.Background(), today.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("same-day: err = %v, want ErrInvalidTransition", err)
	}

	// Already completed is returned as-is
	again, err := svc.CompletePast(context.Background(), due.ID)
	if err != nil {
		t.Fatalf("repeat CompletePast: %v", err)
	}
	if again.Status != StatusCompleted {
		t.Errorf("repeat status = %s", again.Status)
	}
}

func TestGetForUser(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	b := seedBooking(repo, StatusPending, time.Time{})

	if _, err := svc.GetForUser(context.Background(), b.ArtistID, b.ID); err != nil {
		t.Errorf("participant: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), uuid.New(), b.ID); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider: err = %v, want ErrNotParticipant", err)
	}
	if _, err := svc.GetForUser(context.Background(), b.ClientID, uuid.New()); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("unknown id: err = %v, want ErrBookingNotFound", err)
	}
}
