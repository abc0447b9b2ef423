package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/webhook"
)

// multipartOverhead is added to the video ceiling to size the request body limit.
const multipartOverhead = 1 << 20

type Dependencies struct {
	Submissions handler.SubmissionService
	Reviews     handler.ReviewService
	Benchmarks  handler.BenchmarkComparer
	Readiness   map[string]handler.ReadinessCheck

	// WebhookWorker is optional; the router owns its lifecycle when set
	WebhookWorker *webhook.Worker

	Environment         string
	Host                string
	MaxVideoSize        int64
	SubmissionRateLimit int
}

type Router struct {
	app          *fiber.App
	logger       *slog.Logger
	deps         *Dependencies
	rateLimiter  *middleware.RateLimiter
	cancelWorker context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	cfg := fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "TalentSpark API",
	}
	if deps != nil && deps.MaxVideoSize > 0 {
		cfg.BodyLimit = int(deps.MaxVideoSize) + multipartOverhead
	}

	return &Router{
		app:    fiber.New(cfg),
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger, "/health", "/ready"))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	host := "localhost:8000"
	environment := ""
	var readiness map[string]handler.ReadinessCheck
	if r.deps != nil {
		if r.deps.Host != "" {
			host = r.deps.Host
		}
		environment = r.deps.Environment
		readiness = r.deps.Readiness
	}

	sw := docs.NewSwagger(host)
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(environment, readiness, r.logger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure API routes if dependencies were provided
	if r.deps == nil {
		return
	}

	if r.deps.WebhookWorker != nil {
		ctx, cancel := context.WithCancel(context.Background())
		r.cancelWorker = cancel
		go r.deps.WebhookWorker.Run(ctx)
	}

	api := r.app.Group("/api")

	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:    r.deps.SubmissionRateLimit,
		Window: time.Minute,
	})

	submissionHandler := handler.NewSubmissionHandler(r.deps.Submissions, r.logger)
	api.Post("/submissions", r.rateLimiter.Handler(), submissionHandler.Create)
	api.Get("/submissions", submissionHandler.List)
	api.Get("/submissions/:id", submissionHandler.Get)
	api.Get("/submissions/:id/status", submissionHandler.Status)

	reviewHandler := handler.NewReviewHandler(r.deps.Reviews, r.logger)
	api.Post("/submissions/:id/decision", reviewHandler.Decide)
	api.Get("/leaderboard", reviewHandler.Leaderboard)
	api.Get("/admin/stats", reviewHandler.Stats)

	benchmarkHandler := handler.NewBenchmarkHandler(r.deps.Benchmarks)
	api.Get("/benchmark/:age/:gender/:reps", benchmarkHandler.Compare)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	err := r.app.Shutdown()

	// Stop webhook worker after in-flight requests have drained
	if r.cancelWorker != nil {
		r.deps.WebhookWorker.Stop()
		r.cancelWorker()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return err
}
