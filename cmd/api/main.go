package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkmatch/inkmatch-api/internal/config"
	"github.com/inkmatch/inkmatch-api/internal/domain/artist"
	"github.com/inkmatch/inkmatch-api/internal/domain/auth"
	"github.com/inkmatch/inkmatch-api/internal/domain/booking"
	"github.com/inkmatch/inkmatch-api/internal/domain/chat"
	"github.com/inkmatch/inkmatch-api/internal/domain/review"
	"github.com/inkmatch/inkmatch-api/internal/domain/upload"
	"github.com/inkmatch/inkmatch-api/internal/domain/user"
	"github.com/inkmatch/inkmatch-api/internal/middleware"
	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
	"github.com/inkmatch/inkmatch-api/internal/pkg/database"
	"github.com/inkmatch/inkmatch-api/internal/pkg/jwt"
	"github.com/inkmatch/inkmatch-api/internal/pkg/response"
	"github.com/inkmatch/inkmatch-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting InkMatch API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	clk := clock.Real()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	artistRepo := artist.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	// ---------- WebSocket hub ----------
	chatHub := chat.NewHub(redisClient)
	go chatHub.Run()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService)
	artistService := artist.NewService(artistRepo)
	chatService := chat.NewService(chatRepo, userRepo, chatHub)

	// Appointment notices land in the pair's chat room as system messages
	bookingService := booking.NewService(bookingRepo, chatService, clk)
	sweeper := booking.NewSweeper(bookingRepo, clk, cfg.RequestTTLDays)
	reviewService := review.NewService(reviewRepo, bookingService)

	// ---------- Object storage (optional) ----------
	var uploadService *upload.Service
	if cfg.R2AccountID != "" {
		r2Storage, err := storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
		uploadService = upload.NewService(r2Storage, clk)
	} else {
		log.Warn().Msg("R2 not configured, upload endpoints disabled")
	}

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	artistHandler := artist.NewHandler(artistService)
	bookingHandler := booking.NewHandler(bookingService, sweeper)
	chatHandler := chat.NewHandler(chatService, chatHub, redisClient, cfg.AllowedOrigins)
	reviewHandler := review.NewHandler(reviewService, reviewRepo)
	uploadHandler := upload.NewHandler(uploadService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Sweep worker ----------
	var sweepWorker *booking.Worker
	if cfg.SweepEnabled {
		sweepWorker = booking.NewWorker(sweeper, cfg.SweepInterval)
		sweepWorker.Start()
	}

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(chatHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/artists", artistHandler.Routes(authMiddleware))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
		r.Mount("/chat", chatHandler.Routes(authMiddleware))
		r.Mount("/reviews", review.Routes(reviewHandler, authMiddleware))
		r.Mount("/uploads", uploadHandler.Routes(authMiddleware))
	})

	// Sweep endpoints for the external scheduler
	r.Mount("/internal/sweeps", bookingHandler.CronRoutes(cfg.CronSecret))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if sweepWorker != nil {
		sweepWorker.Stop()
	}
	chatHub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
