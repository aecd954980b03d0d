package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/tomasrudz/meteolt-bridge/internal/api/http"
	"github.com/tomasrudz/meteolt-bridge/internal/config"
	"github.com/tomasrudz/meteolt-bridge/internal/discovery"
	"github.com/tomasrudz/meteolt-bridge/internal/meteolt"
	"github.com/tomasrudz/meteolt-bridge/internal/poller"
	"github.com/tomasrudz/meteolt-bridge/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound API calls; the meteo.lt client applies
	// its own per-request response deadline.
	httpClient := &http.Client{}

	client := meteolt.NewClient(
		httpClient,
		meteolt.WithBaseURL(cfg.BaseURL),
		meteolt.WithTimeout(cfg.HTTPTimeout),
	)

	// Resolve the tracked place when only coordinates or a city name were
	// configured. A failure here is terminal: without reference data there
	// is nothing to poll.
	placeCode := cfg.PlaceCode
	if placeCode == "" {
		placeCode, err = resolvePlace(client, cfg)
		if err != nil {
			log.Fatalf("failed to resolve place: %v", err)
		}
		log.Printf("INFO: resolved place code %q", placeCode)
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Poller that periodically fetches feeds and stores snapshots.
	p := poller.New(client, memStore, poller.Config{
		PlaceCode:            placeCode,
		StationCode:          cfg.StationCode,
		HydroStationCode:     cfg.HydroStationCode,
		ForecastInterval:     cfg.ForecastInterval,
		ObservationsInterval: cfg.ObservationsInterval,
		HydroInterval:        cfg.HydroInterval,
		FetchTimeout:         cfg.HTTPTimeout,
	})
	if err := p.Start(context.Background()); err != nil {
		log.Fatalf("failed to start poller: %v", err)
	}
	defer p.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "meteolt-bridge",
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
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "meteolt-bridge",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, client, memStore)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// resolvePlace picks the tracked place from home coordinates, or from a
// geocoded city name when no coordinates are configured.
func resolvePlace(client *meteolt.Client, cfg *config.AppConfig) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	lat, lon := cfg.HomeLatitude, cfg.HomeLongitude
	if !cfg.HasCoordinates {
		var err error
		lat, lon, err = discovery.ResolveCity(cfg.GeocoderAPIKey, cfg.City, cfg.Country)
		if err != nil {
			return "", err
		}
	}

	places, err := client.Places(ctx, false)
	if err != nil {
		return "", err
	}

	place, err := discovery.NearestPlace(places, lat, lon)
	if err != nil {
		return "", err
	}
	return place.Code, nil
}
