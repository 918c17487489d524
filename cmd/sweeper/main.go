package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkmatch/inkmatch-api/internal/config"
	"github.com/inkmatch/inkmatch-api/internal/domain/booking"
	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
	"github.com/inkmatch/inkmatch-api/internal/pkg/database"
)

// One-shot sweep runner for external schedulers (cron, Cloud Scheduler,
// Kubernetes CronJob). Runs both lifecycle sweeps once and exits non-zero
// when either fails, so the scheduler can alert on it.
func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().Msg("Starting booking sweeper")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	repo := booking.NewRepository(db)
	sweeper := booking.NewSweeper(repo, clock.Real(), cfg.RequestTTLDays)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := sweeper.Run(ctx)

	log.Info().
		Bool("success", result.Success).
		Int64("expired", result.ExpiredCount).
		Int64("completed", result.CompletedCount).
		Int64("total", result.TotalProcessed).
		Msg("Sweep run finished")

	if !result.Success {
		log.Error().Str("error", result.Error).Msg("Sweep run failed")
		database.ClosePostgres(db)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
