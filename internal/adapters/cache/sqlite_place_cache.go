package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-route-service/internal/ports"
)

// SQLite backed cache of resolved place lookups. Query keys are expected
// to be normalised by the caller.
type SqlitePlaceCache struct {
	DB *sql.DB
}

func NewSqlitePlaceCache(db *sql.DB) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db}
}

// Fetch cached lookups for the given queries.
func (s *SqlitePlaceCache) GetMany(ctx context.Context, queries []string) (map[string]ports.PlaceCandidate, error) {
	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	uniq := uniqueQueries(queries)
	if len(uniq) == 0 {
		return map[string]ports.PlaceCandidate{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq))
	for _, q := range uniq {
		ph = append(ph, "?")
		args = append(args, q)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        query,
        provider_id,
        name,
        lat,
        lng,
        details
    FROM place_cache
    WHERE query IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
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
func (s *SqlitePlaceCache) PutMany(ctx context.Context, results map[string]ports.PlaceCandidate) error {
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
	INSERT OR REPLACE INTO place_cache (
        query,
        provider_id,
        name,
        lat,
        lng,
        details
    )
    VALUES (?, ?, ?, ?, ?, ?)
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

var _ ports.PlaceCache = (*SqlitePlaceCache)(nil)
