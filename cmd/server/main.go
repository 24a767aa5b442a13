package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-route-service/internal/adapters/cache"
	"trip-route-service/internal/adapters/provider"
	"trip-route-service/internal/api"
	"trip-route-service/internal/config"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/db"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
	"trip-route-service/internal/services"
	"trip-route-service/web"

	"github.com/redis/go-redis/v9"
)

type routingProvider interface {
	ports.DirectionsProvider
	ports.PlaceLookup
}

// main is the application composition root.
// It wires concrete adapters (provider, caches) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		obs.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	legs, places, closers, err := openCaches(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			obs.SafeClose(c, logger, "close cache")
		}
	}()

	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}

	oracle := services.NewOracle(prov, legs, cfg.SolverWorkers)
	planner := services.NewRoutePlanner(oracle, cfg.SolverWorkers)
	session := services.NewSession(planner, &logListener{logger: logger})
	resolver := services.NewPlaceResolver(prov, places)

	router := api.NewRouter(api.Deps{
		Session:     session,
		Resolver:    resolver,
		Logger:      logger,
		IndexPage:   web.IndexPage(cfg.GoogleAPIKey),
		Provider:    cfg.Provider,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", srv.Addr),
			slog.String("provider", cfg.Provider),
			slog.String("cache", cfg.CacheBackend),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newProvider(cfg config.Config) (routingProvider, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		return provider.NewGoogleProvider(cfg.GoogleAPIKey, cfg.ProviderRPS)
	case config.ProviderORS:
		return provider.NewORSProvider(cfg.ORSAPIKey, cfg.ProviderRPS)
	case config.ProviderMock:
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("new provider: unknown provider %q", cfg.Provider)
	}
}

// openCaches builds the leg and place caches. Persistent leg caches sit
// behind an in-memory front tier.
func openCaches(ctx context.Context, cfg config.Config) (ports.LegCache, ports.PlaceCache, []io.Closer, error) {
	memory := cache.NewMemoryLegCache(cfg.LegCacheTTL)

	switch cfg.CacheBackend {
	case config.CacheMemory:
		return memory, cache.NewMemoryPlaceCache(cfg.LegCacheTTL), nil, nil

	case config.CacheSqlite:
		conn, err := openSQL(ctx, db.Sqlite, func() (*sql.DB, error) { return db.OpenSqlite(cfg.DBPath) })
		if err != nil {
			return nil, nil, nil, err
		}
		legs := cache.NewTieredLegCache(memory, cache.NewSqliteLegCache(conn))
		return legs, cache.NewSqlitePlaceCache(conn), []io.Closer{conn}, nil

	case config.CachePostgres:
		conn, err := openSQL(ctx, db.Postgres, func() (*sql.DB, error) { return db.Open(cfg.DatabaseURL) })
		if err != nil {
			return nil, nil, nil, err
		}
		legs := cache.NewTieredLegCache(memory, cache.NewSQLLegCache(conn))
		return legs, cache.NewSQLPlaceCache(conn), []io.Closer{conn}, nil

	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			obs.SafeClose(rdb, slog.Default(), "close redis")
			return nil, nil, nil, fmt.Errorf("open caches: ping redis %s: %w", cfg.RedisAddr, err)
		}
		legs := cache.NewTieredLegCache(memory, cache.NewRedisLegCache(rdb, cfg.LegCacheTTL))
		return legs, cache.NewMemoryPlaceCache(cfg.LegCacheTTL), []io.Closer{rdb}, nil

	default:
		return nil, nil, nil, fmt.Errorf("open caches: unknown backend %q", cfg.CacheBackend)
	}
}

func openSQL(ctx context.Context, dialect db.Dialect, open func() (*sql.DB, error)) (*sql.DB, error) {
	conn, err := open()
	if err != nil {
		return nil, fmt.Errorf("open caches: %w", err)
	}
	if err := db.InitSchema(ctx, conn, dialect); err != nil {
		obs.SafeClose(conn, slog.Default(), "close database")
		return nil, fmt.Errorf("open caches: %w", err)
	}
	return conn, nil
}

// logListener reports session changes to the structured log.
type logListener struct {
	logger *slog.Logger
}

func (l *logListener) PlacesChanged(places []domain.Place) {
	l.logger.Debug("places changed", slog.Int("count", len(places)))
}

func (l *logListener) PlanUpdated(plan *domain.RoutePlan) {
	l.logger.Info("route updated",
		slog.Uint64("generation", plan.Generation),
		slog.Int("stops", len(plan.Order)),
		slog.String("mode", string(plan.Mode)),
		slog.String("strategy", string(plan.Strategy)),
		slog.Float64("duration_s", plan.TotalDurationSeconds),
	)
}

func (l *logListener) PlanCleared(reason error) {
	if reason == nil {
		l.logger.Debug("route cleared")
		return
	}
	l.logger.Info("route cleared", slog.String("reason", reason.Error()))
}
