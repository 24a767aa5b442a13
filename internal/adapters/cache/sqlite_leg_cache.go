package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-route-service/internal/ports"
)

// SQLite backed cache of leg costs. The connection should be opened with
// db.OpenSqlite so writes are serialised.
type SqliteLegCache struct {
	DB *sql.DB
}

func NewSqliteLegCache(db *sql.DB) *SqliteLegCache {
	return &SqliteLegCache{DB: db}
}

func (s *SqliteLegCache) GetLeg(ctx context.Context, key ports.LegKey) (ports.LegCost, bool, error) {
	if s.DB == nil {
		return ports.LegCost{}, false, errors.New("leg cache: db is nil")
	}

	origin, dest := key.Endpoints()

	var cost ports.LegCost
	err := s.DB.QueryRowContext(ctx, `
	SELECT
        distance_meters,
        duration_seconds
    FROM leg_cache
    WHERE mode = ?
        AND origin = ?
        AND destination = ?;
	`, string(key.Mode), origin, dest).Scan(&cost.DistanceMeters, &cost.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LegCost{}, false, nil
	}
	if err != nil {
		return ports.LegCost{}, false, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}

	return cost, true, nil
}

func (s *SqliteLegCache) PutLeg(ctx context.Context, key ports.LegKey, cost ports.LegCost) error {
	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	origin, dest := key.Endpoints()

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO leg_cache (
        mode,
        origin,
        destination,
        distance_meters,
        duration_seconds
    )
    VALUES (?, ?, ?, ?, ?)
	`, string(key.Mode), origin, dest, cost.DistanceMeters, cost.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert leg cache %s: %w", key, err)
	}

	return nil
}

var _ ports.LegCache = (*SqliteLegCache)(nil)
