package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGoogle = "google"
	ProviderORS    = "ors"
	// ProviderMock serves synthetic routes for offline development.
	ProviderMock = "mock"

	CacheMemory   = "memory"
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// Config is the service configuration resolved from the environment.
type Config struct {
	Port         string
	Provider     string
	GoogleAPIKey string
	ORSAPIKey    string

	CacheBackend string
	DBPath       string
	DatabaseURL  string
	RedisAddr    string
	LegCacheTTL  time.Duration

	SolverWorkers int
	ProviderRPS   int
	LogLevel      string
	CORSOrigins   []string
}

// LoadDotEnv reads a .env file if one exists. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds and validates a Config from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:         Get("PORT", "8080"),
		Provider:     strings.ToLower(Get("ROUTE_PROVIDER", ProviderGoogle)),
		GoogleAPIKey: Get("GOOGLE_MAPS_API_KEY", ""),
		ORSAPIKey:    Get("ORS_API_KEY", ""),
		CacheBackend: strings.ToLower(Get("CACHE_BACKEND", CacheSqlite)),
		DBPath:       Get("DB_PATH", "data/app.db"),
		DatabaseURL:  Get("DATABASE_URL", ""),
		RedisAddr:    Get("REDIS_ADDR", "localhost:6379"),
		LogLevel:     Get("LOG_LEVEL", "info"),
		CORSOrigins:  splitList(Get("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.LegCacheTTL, err = time.ParseDuration(Get("LEG_CACHE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("load config: LEG_CACHE_TTL: %w", err)
	}
	if cfg.SolverWorkers, err = positiveInt("SOLVER_WORKERS", 8); err != nil {
		return Config{}, err
	}
	if cfg.ProviderRPS, err = positiveInt("PROVIDER_RPS", 10); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGoogle:
		if c.GoogleAPIKey == "" {
			return errors.New("load config: GOOGLE_MAPS_API_KEY is required for the google provider")
		}
	case ProviderORS:
		if c.ORSAPIKey == "" {
			return errors.New("load config: ORS_API_KEY is required for the ors provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("load config: unknown ROUTE_PROVIDER %q", c.Provider)
	}

	switch c.CacheBackend {
	case CacheMemory, CacheSqlite, CacheRedis:
	case CachePostgres:
		if c.DatabaseURL == "" {
			return errors.New("load config: DATABASE_URL is required for the postgres cache")
		}
	default:
		return fmt.Errorf("load config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	return nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := Get(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("load config: %s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
