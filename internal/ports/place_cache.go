package ports

import "context"

// Contract for caching resolved lookups keyed by normalised query text.
type PlaceCache interface {
	GetMany(ctx context.Context, queries []string) (map[string]PlaceCandidate, error)
	PutMany(ctx context.Context, results map[string]PlaceCandidate) error
}
