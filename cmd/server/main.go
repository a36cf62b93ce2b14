package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dasschool/das-verify/internal/config"
	"github.com/dasschool/das-verify/internal/database"
	"github.com/dasschool/das-verify/internal/handler"
	"github.com/dasschool/das-verify/internal/logger"
	"github.com/dasschool/das-verify/internal/repository"
	"github.com/dasschool/das-verify/internal/router"
	"github.com/dasschool/das-verify/internal/service"
	"github.com/dasschool/das-verify/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Bool("legacy_combined_rates", cfg.LegacyCombinedRates).
		Msg("Starting DAS attendance API")

	if cfg.LegacyCombinedRates {
		log.Warn().Msg("Legacy combined-rate mode is ON: the no-filter analytics path averages session rates")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to SQLite ─────────────────────────────────────────────
	db, err := database.NewSQLite(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open SQLite database")
	}
	defer db.Close()

	// ─── Connect to Redis (optional analytics cache) ───────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	attendanceRepo := repository.NewAttendanceRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	userRepo := repository.NewUserRepository(db)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	analyticsService := service.NewAnalyticsService(attendanceRepo, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Academic:  handler.NewAcademicHandler(yearRepo),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
