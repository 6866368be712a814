package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/database"
	"github.com/edutrain/training-backend/internal/handler"
	"github.com/edutrain/training-backend/internal/logger"
	"github.com/edutrain/training-backend/internal/middleware"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/edutrain/training-backend/internal/router"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/edutrain/training-backend/internal/validator"
	"github.com/edutrain/training-backend/internal/worker"
	"github.com/rs/zerolog"
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
		Msg("Starting training backend")

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

	db, err := database.NewGorm(pool, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open GORM session")
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	sessions := service.NewRedisSessionStore(rdb)
	events := service.NewRedisPublisher(rdb, log)

	authService := service.NewAuthService(cfg, userRepo, sessions, log)
	userService := service.NewUserService(userRepo, authService, sessions, log)
	courseService := service.NewCourseService(courseRepo, events, log)
	studentService := service.NewStudentService(studentRepo, authService, events, cfg, log)
	rosterService := service.NewRosterService(studentRepo, authService, events, cfg, log)
	teacherService := service.NewTeacherService(teacherRepo, departmentRepo, authService, events, cfg, log)
	departmentService := service.NewDepartmentService(departmentRepo, events, log)
	classService := service.NewClassService(classRepo, courseRepo, teacherRepo, events, log)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, events, log)
	dashboardService := service.NewDashboardService(dashboardRepo, service.NewRedisSummaryCache(rdb), cfg.DashboardCacheTTL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService, log),
		User:       handler.NewUserHandler(userService, log),
		Dashboard:  handler.NewDashboardHandler(dashboardService, log),
		Course:     handler.NewCourseHandler(courseService, log),
		Student:    handler.NewStudentHandler(studentService, rosterService, cfg.MaxImportBytes, log),
		Teacher:    handler.NewTeacherHandler(teacherService, log),
		Department: handler.NewDepartmentHandler(departmentService, log),
		Class:      handler.NewClassHandler(classService, log),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, log),
		WS:         handler.NewWSHandler(events, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(log, pool.Stat,
			handler.HealthCheck{Name: "postgres", Ping: pool.Ping},
			handler.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	go loginLimiter.Run(workerCtx)

	classStatusWorker := worker.NewClassStatusWorker(classService, service.NewRedisLocker(rdb), cfg.ClassStatusCron, log)
	if err := classStatusWorker.Start(workerCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start class status worker")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, loginLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	fmt.Println("Training backend started successfully")

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

	// 2. Stop background jobs; a running class sync is allowed to finish.
	workerCancel()
	classStatusWorker.Stop()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
