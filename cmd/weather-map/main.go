package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/weather-map/internal/api/http"
	"github.com/i474232898/weather-map/internal/config"
	"github.com/i474232898/weather-map/internal/geocode"
	"github.com/i474232898/weather-map/internal/jobs"
	"github.com/i474232898/weather-map/internal/scheduler"
	"github.com/i474232898/weather-map/internal/store"
	"github.com/i474232898/weather-map/internal/weather"
	"github.com/i474232898/weather-map/internal/weather/providers"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared HTTP client for outbound provider and geocoding calls,
	// constructed once and injected everywhere it is needed.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Job store: Redis when configured, in-memory otherwise.
	var jobStore jobs.Store
	var janitor *scheduler.Janitor
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		jobStore = store.NewRedisStore(redis.NewClient(opt), cfg.StoreMaxAge)
		log.Info().Msg("using redis job store")
	} else {
		memStore := store.NewMemoryStore(cfg.StoreMaxJobs, cfg.StoreMaxAge)
		jobStore = memStore

		// The memory store needs a periodic sweep; Redis expires on its own.
		janitor = scheduler.New(memStore, cfg.JanitorInterval)
		if err := janitor.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start janitor")
		}
		defer janitor.Stop()
	}

	// Historical data providers, primary first.
	provs := []weather.HistoricalProvider{
		providers.NewPowerProvider(httpClient),
		providers.NewOpenMeteoProvider(httpClient),
	}

	worker := jobs.NewWorker(jobStore, provs, cfg.YearsBack, cfg.MaxChunks, cfg.FetchTimeout)
	service := jobs.NewService(jobStore, worker)

	// Geocoding collaborator.
	var geo geocode.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = geocode.NewGoogle(cfg.GeocoderAPIKey)
	} else {
		geo = geocode.NewNominatim(httpClient)
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-map",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-map",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, geo)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
