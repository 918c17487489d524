package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker runs the sweep jobs on a fixed interval for deployments without an
// external cron trigger. The HTTP sweep endpoints remain available either way.
type Worker struct {
	sweeper  *Sweeper
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a sweep worker
func NewWorker(sweeper *Sweeper, interval time.Duration) *Worker {
	if interval == 0 {
		interval = 24 * time.Hour
	}
	return &Worker{
		sweeper:  sweeper,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background worker
func (w *Worker) Start() {
	log.Info().Dur("interval", w.interval).Msg("Starting booking sweep worker...")
	go w.loop()
}

// Stop gracefully stops the background worker
func (w *Worker) Stop() {
	log.Info().Msg("Stopping booking sweep worker...")
	close(w.stopCh)
}

func (w *Worker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately on startup
	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Worker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := w.sweeper.Run(ctx)
	if !result.Success {
		log.Error().Str("error", result.Error).Msg("Booking sweep run failed")
		return
	}
	log.Debug().
		Int64("expired", result.ExpiredCount).
		Int64("completed", result.CompletedCount).
		Msg("Booking sweep run finished")
}
