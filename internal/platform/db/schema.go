package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func schemaStatements(dialect Dialect) []string {
	float := "REAL"
	if dialect == Postgres {
		float = "DOUBLE PRECISION"
	}

	createLegCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS leg_cache (
        mode TEXT NOT NULL,
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters %[1]s NOT NULL,
        duration_seconds %[1]s NOT NULL,
        PRIMARY KEY (mode, origin, destination)
    );
	`, float)

	createPlaceCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS place_cache (
        query TEXT PRIMARY KEY,
        provider_id TEXT NOT NULL DEFAULT '',
        name TEXT NOT NULL,
        lat %[1]s NOT NULL,
        lng %[1]s NOT NULL,
        details TEXT NOT NULL DEFAULT '{}'
    );
	`, float)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_leg_cache_destination_origin
    ON leg_cache(destination, origin);
	`

	return []string{
		createLegCacheQuery,
		createPlaceCacheQuery,
		createIndexQuery,
	}
}

// InitSchema creates the cache tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements(dialect) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Purge deletes every cached leg and place lookup.
func Purge(ctx context.Context, db *sql.DB) (legs, places int64, err error) {
	if db == nil {
		return 0, 0, errors.New("purge caches: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("purge caches: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM leg_cache;`)
	if err != nil {
		return 0, 0, fmt.Errorf("purge caches: leg_cache: %w", err)
	}
	legs, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM place_cache;`)
	if err != nil {
		return 0, 0, fmt.Errorf("purge caches: place_cache: %w", err)
	}
	places, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("purge caches: commit tx: %w", err)
	}

	return legs, places, nil
}
