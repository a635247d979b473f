package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/database"
	"github.com/coursedesk/coursedesk-backend/internal/handler"
	"github.com/coursedesk/coursedesk-backend/internal/logger"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/router"
	"github.com/coursedesk/coursedesk-backend/internal/service"
	"github.com/coursedesk/coursedesk-backend/internal/validator"
	"github.com/coursedesk/coursedesk-backend/internal/wizard"
	"github.com/coursedesk/coursedesk-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting CourseDesk Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	facultyRepo := repository.NewFacultyRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	facultyService := service.NewFacultyService(facultyRepo)
	courseService := service.NewCourseService(courseRepo, cfg, log)
	importService := service.NewImportService(courseRepo, rdb, cfg, log)
	committers := service.NewWizardCommitters(courseRepo, cfg, log)

	wizardStore := wizard.NewStore(cfg.WizardSessionTTL)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, facultyService),
		Course:    handler.NewCourseHandler(courseService),
		Import:    handler.NewImportHandler(importService, cfg),
		Wizard:    handler.NewWizardHandler(wizardStore, committers, courseService, importService),
		Dashboard: handler.NewDashboardHandler(courseService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	reaper := worker.NewSessionReaper(wizardStore, time.Minute, log)
	go reaper.Start(workerCtx)

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

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
