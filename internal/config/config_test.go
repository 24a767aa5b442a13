package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("ROUTE_PROVIDER", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("SOLVER_WORKERS", "")
	t.Setenv("LEG_CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, CacheSqlite, cfg.CacheBackend)
	assert.Equal(t, 8, cfg.SolverWorkers)
	assert.Equal(t, 24*time.Hour, cfg.LegCacheTTL)
}

func TestLoadRejectsMissingKeys(t *testing.T) {
	t.Setenv("ROUTE_PROVIDER", "ors")
	t.Setenv("ORS_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "ORS_API_KEY")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "k")
	t.Setenv("ROUTE_PROVIDER", "google")

	t.Run("workers", func(t *testing.T) {
		t.Setenv("SOLVER_WORKERS", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "SOLVER_WORKERS")
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("ROUTE_PROVIDER", "carrier-pigeon")
		_, err := Load()
		assert.ErrorContains(t, err, "ROUTE_PROVIDER")
	})
}

func TestLoadMockProviderNeedsNoKey(t *testing.T) {
	t.Setenv("ROUTE_PROVIDER", "MOCK")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("CACHE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, cfg.Provider)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("ROUTE_PROVIDER", "mock")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://trips.example.org,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://trips.example.org"}, cfg.CORSOrigins)
}
