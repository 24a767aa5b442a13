package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
	"trip-route-service/internal/config"
	"trip-route-service/internal/platform/db"
	"trip-route-service/internal/platform/obs"
)

// dbtool prepares the persistent cache schema and can empty the caches.
func main() {
	config.LoadDotEnv()

	dialect := flag.String("dialect", config.Get("CACHE_BACKEND", config.CacheSqlite), "sqlite or postgres")
	dbPath := flag.String("db", config.Get("DB_PATH", "data/app.db"), "sqlite database file")
	databaseURL := flag.String("url", config.Get("DATABASE_URL", ""), "postgres connection URL")
	purge := flag.Bool("purge", false, "delete every cached leg and place lookup")
	flag.Parse()

	logger := obs.NewLogger(os.Stdout, config.Get("LOG_LEVEL", "info"))

	if err := run(*dialect, *dbPath, *databaseURL, *purge, logger); err != nil {
		obs.LogError(logger, "dbtool failed", err)
		os.Exit(1)
	}
}

func run(dialect, dbPath, databaseURL string, purge bool, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, d, err := open(dialect, dbPath, databaseURL)
	if err != nil {
		return err
	}
	defer obs.SafeClose(conn, logger, "close database")

	logger.Info("initializing cache schema", slog.String("dialect", string(d)))
	if err := db.InitSchema(ctx, conn, d); err != nil {
		return err
	}
	logger.Info("schema ready")

	if !purge {
		return nil
	}

	legs, places, err := db.Purge(ctx, conn)
	if err != nil {
		return err
	}
	logger.Info("caches purged", slog.Int64("legs", legs), slog.Int64("places", places))
	return nil
}

func open(dialect, dbPath, databaseURL string) (*sql.DB, db.Dialect, error) {
	switch dialect {
	case config.CacheSqlite:
		conn, err := db.OpenSqlite(dbPath)
		return conn, db.Sqlite, err
	case config.CachePostgres:
		if databaseURL == "" {
			return nil, "", errors.New("dbtool: DATABASE_URL or -url is required for postgres")
		}
		conn, err := db.Open(databaseURL)
		return conn, db.Postgres, err
	default:
		return nil, "", fmt.Errorf("dbtool: unsupported dialect %q (want sqlite or postgres)", dialect)
	}
}
