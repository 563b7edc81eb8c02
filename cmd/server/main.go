package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/access"
	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/database"
	"github.com/hirepulse/hirepulse-backend/internal/event"
	"github.com/hirepulse/hirepulse-backend/internal/gateway"
	"github.com/hirepulse/hirepulse-backend/internal/handler"
	"github.com/hirepulse/hirepulse-backend/internal/logger"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/repository"
	"github.com/hirepulse/hirepulse-backend/internal/router"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	"github.com/hirepulse/hirepulse-backend/internal/validator"
	"github.com/hirepulse/hirepulse-backend/internal/worker"
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
		Msg("Starting HirePulse Backend")

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

	// ─── Evaluation Gateway ────────────────────────────────────────────
	var provider gateway.Provider = gateway.DisabledProvider{}
	if cfg.GCPProject != "" {
		vertex, err := gateway.NewVertexProvider(ctx, gateway.VertexConfig{
			Project:         cfg.GCPProject,
			Location:        cfg.GCPLocation,
			Model:           cfg.GeminiModel,
			CredentialsFile: cfg.GCPCredentials,
		}, log)
		if err != nil {
			log.Error().Err(err).Msg("Vertex AI unavailable, serving fallback content")
		} else {
			defer vertex.Close()
			provider = vertex
		}
	} else {
		log.Warn().Msg("GOOGLE_CLOUD_PROJECT not set, serving fallback content")
	}
	gw := gateway.New(provider, gateway.RetryPolicy{
		Base:       cfg.AIRetryBase,
		MaxRetries: cfg.AIMaxRetries,
	}, cfg.AIRequestTimeout, log)

	// ─── Event Bus ─────────────────────────────────────────────────────
	publisher, err := event.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	if err != nil {
		log.Error().Err(err).Msg("AMQP broker unavailable, session events disabled")
		publisher, _ = event.NewAMQPPublisher("", cfg.AMQPExchange, log)
	}
	defer publisher.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	profileRepo := repository.NewProfileRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	monitorRepo := repository.NewMonitorRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	queue := service.NewPersistenceQueue(rdb)
	examService := service.NewExamService(examRepo, companyRepo, rdb, cfg.ExamCacheTTL, log)
	shell := access.NewShell(profileRepo, examService, queue, log)
	authService := service.NewAuthService(cfg, rdb, profileRepo, shell, log)
	profileService := service.NewProfileService(profileRepo, sessionRepo, shell, log)
	companyService := service.NewCompanyService(companyRepo, log)
	leaderboardService := service.NewLeaderboardService(sessionRepo, examService)
	practiceService := service.NewPracticeService(gw, shell, log)
	monitorService := service.NewMonitorService(monitorRepo, sessionRepo, rdb, log)
	interviewService := service.NewInterviewService(
		gw, shell, shell, authService,
		service.NewRedisInterviewLocks(rdb),
		service.NewRedisMonitorFeed(rdb),
		queue,
		cfg.QuestionTimeLimit,
		log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, profileService, log),
		Candidate: handler.NewCandidateHandler(profileService, log),
		Practice:  handler.NewPracticeHandler(practiceService),
		Exam:      handler.NewExamHandler(examService, leaderboardService, companyService, log),
		Monitor:   handler.NewMonitorHandler(examService, monitorService, log),
		WS:        handler.NewWSHandler(interviewService, log, cfg.AllowedOrigins),
	}

	limiterDone := make(chan struct{})
	limiters := &router.Limiters{
		Auth: middleware.NewRateLimiter(cfg.RateLimitPerMin),
		AI:   middleware.NewRateLimiter(cfg.RateLimitPerMin),
	}
	limiters.Auth.StartCleanup(limiterDone)
	limiters.AI.StartCleanup(limiterDone)

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	sessionWorker := worker.NewSessionWorker(sessionRepo, publisher, rdb, log)
	proctorWorker := worker.NewProctorWorker(monitorRepo, rdb, log)
	workers.Add(2)
	go func() { defer workers.Done(); sessionWorker.Start(workerCtx) }()
	go func() { defer workers.Done(); proctorWorker.Start(workerCtx) }()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, limiters, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests. Hijacked WebSockets are not
	// tracked by Shutdown; cancelling ctx below ends their gateway calls.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	close(limiterDone)
	cancel()

	// 2. Stop workers; each flushes its buffer before returning.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
