package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// SQLPlaceCache is a Postgres-backed cache of resolved place lookups keyed
// by normalised query text.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

// Fetch cached lookups for the given queries.
func (s *SQLPlaceCache) GetMany(
	ctx context.Context,
	queries []string,
) (_ map[string]ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	uniq := uniqueQueries(queries)
	if len(uniq) == 0 {
		return map[string]ports.PlaceCandidate{}, nil
	}

	q := `
	SELECT query, provider_id, name, lat, lng, details
    FROM place_cache
    WHERE query = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.PlaceCandidate, len(uniq))
	for rows.Next() {
		var r placeRow
		if err := rows.Scan(&r.query, &r.providerID, &r.name, &r.lat, &r.lng, &r.details); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		c, err := r.candidate()
		if err != nil {
			return nil, fmt.Errorf("get place cache: %w", err)
		}
		out[r.query] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}

	return out, nil
}

// Store query -> place mappings in the cache.
func (s *SQLPlaceCache) PutMany(ctx context.Context, results map[string]ports.PlaceCandidate) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO place_cache (query, provider_id, name, lat, lng, details)
    VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (query) DO UPDATE
	SET provider_id = EXCLUDED.provider_id,
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		details = EXCLUDED.details;
	`)
	if err != nil {
		return fmt.Errorf("insert place cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for query, c := range results {
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("insert place cache: empty query key")
		}

		details, err := encodeDetails(c.Details)
		if err != nil {
			return fmt.Errorf("insert place cache query=%q: encode details: %w", query, err)
		}

		if _, err := stmt.ExecContext(ctx, query, c.ProviderID, c.Name, c.Coordinates.Lat, c.Coordinates.Lng, details); err != nil {
			return fmt.Errorf("insert place cache query=%q: %w", query, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}

var _ ports.PlaceCache = (*SQLPlaceCache)(nil)
