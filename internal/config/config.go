package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomasrudz/meteolt-bridge/internal/meteolt"
)

type AppConfig struct {
	// Upstream API.
	BaseURL     string
	HTTPTimeout time.Duration

	// What to track. PlaceCode may be left empty when coordinates or a city
	// are configured; it is then resolved at startup via discovery.
	// StationCode/HydroStationCode set to "none" disable those feeds.
	PlaceCode        string
	StationCode      string
	HydroStationCode string

	// Fallbacks for place discovery.
	HomeLatitude   float64
	HomeLongitude  float64
	HasCoordinates bool
	City           string
	Country        string
	GeocoderAPIKey string

	// Poll intervals per feed.
	ForecastInterval     time.Duration
	ObservationsInterval time.Duration
	HydroInterval        time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per feed (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.BaseURL = getenvDefault("METEOLT_BASE_URL", meteolt.DefaultBaseURL)

	timeout, err := getenvDuration("HTTP_TIMEOUT", meteolt.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.PlaceCode = os.Getenv("PLACE_CODE")
	cfg.StationCode = getenvDefault("STATION_CODE", "none")
	cfg.HydroStationCode = getenvDefault("HYDRO_STATION_CODE", "none")

	latStr := os.Getenv("HOME_LATITUDE")
	lonStr := os.Getenv("HOME_LONGITUDE")
	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HOME_LATITUDE: %w", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HOME_LONGITUDE: %w", err)
		}
		cfg.HomeLatitude = lat
		cfg.HomeLongitude = lon
		cfg.HasCoordinates = true
	}

	cfg.City = os.Getenv("LOCATION_CITY")
	cfg.Country = getenvDefault("LOCATION_COUNTRY", "Lithuania")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	if cfg.PlaceCode == "" && !cfg.HasCoordinates && cfg.City == "" {
		return nil, fmt.Errorf("set PLACE_CODE, HOME_LATITUDE/HOME_LONGITUDE or LOCATION_CITY")
	}

	if cfg.ForecastInterval, err = getenvDuration("FORECAST_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ObservationsInterval, err = getenvDuration("OBSERVATIONS_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.HydroInterval, err = getenvDuration("HYDRO_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 48h at 30-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
