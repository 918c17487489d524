package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
)

// SweepResult is the combined outcome of one sweep invocation, shaped for
// the external scheduler that triggers the jobs.
type SweepResult struct {
	Success        bool      `json:"success"`
	ExpiredCount   int64     `json:"expired_count"`
	CompletedCount int64     `json:"completed_count"`
	TotalProcessed int64     `json:"total_processed"`
	Message        string    `json:"message,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Sweeper runs the two time-driven batch jobs: expiring stale requests and
// completing past appointments. Both are idempotent; re-running with no
// intervening time change affects zero additional rows.
type Sweeper struct {
	repo    Repository
	clk     clock.Clock
	ttlDays int
}

// NewSweeper creates a sweeper. ttlDays is the pending-request expiry window.
func NewSweeper(repo Repository, clk clock.Clock, ttlDays int) *Sweeper {
	if clk == nil {
		clk = clock.Real()
	}
	if ttlDays <= 0 {
		ttlDays = 15
	}
	return &Sweeper{repo: repo, clk: clk, ttlDays: ttlDays}
}

// ExpireStaleRequests expires pending bookings without an appointment date
// older than the expiry window.
func (s *Sweeper) ExpireStaleRequests(ctx context.Context) (int64, error) {
	cutoff := s.clk.Now().AddDate(0, 0, -s.ttlDays)
	return s.repo.ExpireStaleRequests(ctx, cutoff)
}

// CompletePastAppointments completes scheduled/rescheduled bookings whose
// appointment date (date portion only) is strictly before today.
func (s *Sweeper) CompletePastAppointments(ctx context.Context) (int64, error) {
	dayStart := clock.StartOfDay(s.clk.Now())
	return s.repo.CompletePastAppointments(ctx, dayStart)
}

// Run executes both jobs independently and reports a combined result.
// A failure in one job does not prevent the other from running; any failure
// marks the whole run failed so the scheduler records it.
func (s *Sweeper) Run(ctx context.Context) *SweepResult {
	result := &SweepResult{Timestamp: s.clk.Now()}

	expired, expireErr := s.ExpireStaleRequests(ctx)
	if expireErr != nil {
		log.Error().Err(expireErr).Msg("Failed to expire stale booking requests")
	} else {
		result.ExpiredCount = expired
		if expired > 0 {
			log.Info().Int64("count", expired).Msg("Expired stale booking requests")
		}
	}

	completed, completeErr := s.CompletePastAppointments(ctx)
	if completeErr != nil {
		log.Error().Err(completeErr).Msg("Failed to complete past appointments")
	} else {
		result.CompletedCount = completed
		if completed > 0 {
			log.Info().Int64("count", completed).Msg("Completed past appointments")
		}
	}

	result.TotalProcessed = result.ExpiredCount + result.CompletedCount

	switch {
	case expireErr != nil && completeErr != nil:
		result.Error = fmt.Sprintf("expire: %v; complete: %v", expireErr, completeErr)
	case expireErr != nil:
		result.Error = fmt.Sprintf("expire: %v", expireErr)
	case completeErr != nil:
		result.Error = fmt.Sprintf("complete: %v", completeErr)
	default:
		result.Success = true
		result.Message = fmt.Sprintf("expired %d requests, completed %d appointments",
			result.ExpiredCount, result.CompletedCount)
	}

	return result
}
