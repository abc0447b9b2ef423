package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/api"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/audit"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/config"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/database"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/repository"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/service"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting TalentSpark API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("storage", cfg.StorageProvider),
		slog.String("video_probe", cfg.VideoProbe),
		slog.String("face_detector", cfg.FaceDetector),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.MigrateUp(ctx, cfg.DatabaseURL, cfg.DatabaseName, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	store, closeStore, err := newVideoStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	probe, err := newVideoProbe(cfg)
	if err != nil {
		return err
	}

	engineOpts := []integrity.VerifierOption{integrity.WithLogger(logger)}
	detector, err := newFaceDetector(ctx, cfg)
	if err != nil {
		return err
	}
	if detector != nil {
		engineOpts = append(engineOpts, integrity.WithFaceDetector(detector))
	}

	engine, err := integrity.NewEngine(cfg.IntegritySettings(), probe, engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create integrity engine: %w", err)
	}

	calculator, err := newCalculator(cfg)
	if err != nil {
		return err
	}

	// Repositories
	submissionRepo := repository.NewSubmissionRepository(pool)
	leaderboardRepo := repository.NewLeaderboardRepository(pool)

	// Review notifications
	webhookCfg := webhook.DefaultConfig(cfg.ReviewWebhookURL, cfg.ReviewWebhookSecret)
	webhookWorker := webhook.NewWorker(webhook.NewNotifier(webhookCfg), webhookCfg, logger)

	auditLogger := audit.NewSlogLogger(logger)

	submissionService := service.NewSubmissionService(submissionRepo, engine, store, calculator, service.UploadLimits{
		MaxVideoSize: cfg.MaxVideoSize,
		TypeAllowed:  cfg.VideoTypeAllowed,
	}, logger).
		WithAudit(auditLogger).
		WithNotifier(webhookWorker)

	reviewService := service.NewReviewService(submissionRepo, leaderboardRepo, logger).
		WithAudit(auditLogger)

	readiness := map[string]handler.ReadinessCheck{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, pool) },
	}
	if p, ok := store.(pinger); ok {
		readiness["storage"] = p.Ping
	}
	if p, ok := detector.(pinger); ok {
		readiness["face_detector"] = p.Ping
	}

	router := api.NewRouter(logger, &api.Dependencies{
		Submissions:         submissionService,
		Reviews:             reviewService,
		Benchmarks:          calculator,
		Readiness:           readiness,
		WebhookWorker:       webhookWorker,
		Environment:         cfg.Environment,
		Host:                fmt.Sprintf("localhost:%d", cfg.Port),
		MaxVideoSize:        cfg.MaxVideoSize,
		SubmissionRateLimit: cfg.SubmissionRateLimit,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(10 * time.Second):
		logger.Error("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}
