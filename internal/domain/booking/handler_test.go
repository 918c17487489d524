package booking

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
)

func TestRunSweepsResponseShape(t *testing.T) {
	repo := newFakeRepo()
	seedRequestAge(repo, 16*24*time.Hour)
	seedBooking(repo, StatusScheduled, testNow.Add(-24*time.Hour))

	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)
	handler := NewHandler(nil, sweeper)

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	rec := httptest.NewRecorder()
	handler.RunSweeps(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Success        bool   `json:"success"`
		ExpiredCount   int64  `json:"expired_count"`
		CompletedCount int64  `json:"completed_count"`
		TotalProcessed int64  `json:"total_processed"`
		Message        string `json:"message"`
		Timestamp      string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.ExpiredCount != 1 || body.CompletedCount != 1 || body.TotalProcessed != 2 {
		t.Errorf("counts = %d/%d/%d, want 1/1/2", body.ExpiredCount, body.CompletedCount, body.TotalProcessed)
	}
	if body.Message == "" {
		t.Error("message missing on success")
	}
	if body.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestRunSweepsFailureReturns500(t *testing.T) {
	repo := newFakeRepo()
	repo.failExpire = errors.New("pq: connection refused")

	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)
	handler := NewHandler(nil, sweeper)

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	rec := httptest.NewRecorder()
	handler.RunSweeps(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Error == "" {
		t.Error("error detail missing")
	}
}

func TestCronRoutesSecret(t *testing.T) {
	repo := newFakeRepo()
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)
	handler := NewHandler(nil, sweeper)

	router := handler.CronRoutes("s3cret")
	srv := httptest.NewServer(router)
	defer srv.Close()

	// Missing secret
	resp, err := http.Post(srv.URL+"/run", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("missing secret: status = %d, want 401", resp.StatusCode)
	}

	// Wrong secret
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/run", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", resp.StatusCode)
	}

	// Correct secret
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/run", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("correct secret: status = %d, want 200", resp.StatusCode)
	}
}

func TestCronRoutesNoSecretConfigured(t *testing.T) {
	repo := newFakeRepo()
	sweeper := NewSweeper(repo, clock.Fixed(testNow), 15)
	handler := NewHandler(nil, sweeper)

	router := handler.CronRoutes("")
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/run", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 when no secret configured", resp.StatusCode)
	}
}

func TestBookingResponseHidesEmptySections(t *testing.T) {
	b := seedBooking(newFakeRepo(), StatusPending, time.Time{})
	resp := b.ToResponse("client")

	if resp.Appointment != nil {
		t.Error("pending request should have no appointment section")
	}
	if resp.StatusLabel != "Request sent" {
		t.Errorf("status label = %q", resp.StatusLabel)
	}

	b.AppointmentDate = sql.NullTime{Time: testNow.Add(48 * time.Hour), Valid: true}
	resp = b.ToResponse("client")
	if resp.Appointment == nil {
		t.Fatal("appointment section missing")
	}
	if resp.Appointment.Date != testNow.Add(48*time.Hour).Format("2006-01-02") {
		t.Errorf("date = %q", resp.Appointment.Date)
	}
}
