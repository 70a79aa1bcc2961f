package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Port string

	// Outbound HTTP client timeout for provider and geocoding calls.
	HTTPTimeout time.Duration

	// Worker behaviour.
	FetchTimeout time.Duration // hard ceiling for one job's external fetch
	YearsBack    int           // how many past years the worker samples
	MaxChunks    int           // cap on chunk iterations per job

	// Client poller behaviour.
	PollInterval    time.Duration
	PollMaxAttempts int
	PollMaxDuration time.Duration

	// Job store retention.
	StoreMaxJobs    int           // max retained jobs in memory (0 = unlimited)
	StoreMaxAge     time.Duration // TTL for terminal jobs
	JanitorInterval time.Duration

	// Optional Redis-backed store; empty selects the in-memory store.
	RedisURL string

	// Optional Google geocoding backend.
	GeocoderAPIKey string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msgf("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	// The external provider can take minutes for a multi-year query; the
	// ceiling turns a hang into a failed terminal state.
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "5m"); err != nil {
		return nil, err
	}
	cfg.YearsBack = getenvInt("FETCH_YEARS_BACK", 5)
	cfg.MaxChunks = getenvInt("FETCH_MAX_CHUNKS", 12)

	if cfg.PollInterval, err = getenvDuration("POLL_INTERVAL", "3s"); err != nil {
		return nil, err
	}
	cfg.PollMaxAttempts = getenvInt("POLL_MAX_ATTEMPTS", 100)
	if cfg.PollMaxDuration, err = getenvDuration("POLL_MAX_DURATION", "10m"); err != nil {
		return nil, err
	}

	cfg.StoreMaxJobs = getenvInt("STORE_MAX_JOBS", 1000)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	if cfg.JanitorInterval, err = getenvDuration("JANITOR_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	if cfg.YearsBack <= 0 {
		return nil, fmt.Errorf("FETCH_YEARS_BACK must be positive")
	}
	if cfg.MaxChunks <= 0 {
		return nil, fmt.Errorf("FETCH_MAX_CHUNKS must be positive")
	}

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

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
