package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// SQLLegCache is a Postgres-backed cache of leg costs keyed by mode,
// origin and destination.
type SQLLegCache struct {
	DB *sql.DB
}

func NewSQLLegCache(db *sql.DB) *SQLLegCache {
	return &SQLLegCache{DB: db}
}

func (s *SQLLegCache) GetLeg(ctx context.Context, key ports.LegKey) (_ ports.LegCost, _ bool, err error) {
	defer obs.Time(ctx, "leg.cache.Get")(&err)

	if s.DB == nil {
		return ports.LegCost{}, false, errors.New("leg cache: db is nil")
	}

	origin, dest := key.Endpoints()

	q := `
	SELECT distance_meters, duration_seconds
    FROM leg_cache
    WHERE mode = $1
        AND origin = $2
        AND destination = $3;
	`

	var cost ports.LegCost
	err = s.DB.QueryRowContext(ctx, q, string(key.Mode), origin, dest).
		Scan(&cost.DistanceMeters, &cost.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LegCost{}, false, nil
	}
	if err != nil {
		return ports.LegCost{}, false, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}

	return cost, true, nil
}

func (s *SQLLegCache) PutLeg(ctx context.Context, key ports.LegKey, cost ports.LegCost) (err error) {
	defer obs.Time(ctx, "leg.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	origin, dest := key.Endpoints()

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO leg_cache (mode, origin, destination, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (mode, origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`, string(key.Mode), origin, dest, cost.DistanceMeters, cost.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert leg cache %s: %w", key, err)
	}

	return nil
}

var _ ports.LegCache = (*SQLLegCache)(nil)
