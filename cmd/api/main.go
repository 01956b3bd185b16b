package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/async"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/config"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/handler"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/observability"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/repository"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/service"
	appvalidator "github.com/fairyhunter13/coupon-directory-analytics/internal/validator"
	"github.com/fairyhunter13/coupon-directory-analytics/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), database.PoolOptions{MaxRetries: 5})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.AutoMigrate {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap schema")
		}
		log.Info().Msg("daily_stats schema ready")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	// Repositories
	statRepo := repository.NewDailyStatRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	storeRepo := repository.NewStoreRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Services
	clock := service.SystemClock{}
	tracker := service.NewTracker(statRepo, couponRepo, clock, metrics)
	dashboard := service.NewDashboardService(statRepo, storeRepo, couponRepo, userRepo, clock)
	ranker := service.NewRanker(statRepo, couponRepo, storeRepo)
	dispatcher := async.NewDispatcher(cfg.Analytics.TrackTimeoutDuration(), metrics)

	// Handlers
	validate := appvalidator.New()
	trackHandler := handler.NewTrackHandler(tracker, dispatcher, validate)
	reportHandler := handler.NewReportHandler(dashboard, ranker, validate, cfg.Analytics.ChartWindowDays)
	healthHandler := handler.NewHealthHandler(pool, dispatcher)

	app := fiber.New(fiber.Config{
		AppName:      "Coupon Directory Analytics",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    64 * 1024, // tracking payloads are tiny
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(handler.Language())

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Post("/analytics/track", limiter.New(limiter.Config{
		Max:        cfg.Analytics.TrackRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "too many requests",
			})
		},
	}), trackHandler.Track)

	reports := api.Group("/admin/reports")
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/dashboard/top-coupons", reportHandler.TopCoupons)
	reports.Get("/dashboard/top-stores", reportHandler.TopStores)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Stop accepting requests first so no new tracking work is dispatched
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Detached tracking writes still need the pool
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.Analytics.DrainTimeoutDuration())
	defer drainCancel()
	log.Info().Int("pending_tracking", dispatcher.InFlight()).Msg("draining tracking writes...")
	if err := dispatcher.Drain(drainCtx); err != nil {
		log.Warn().Err(err).Int("pending_tracking", dispatcher.InFlight()).Msg("tracking drain incomplete")
	}

	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
