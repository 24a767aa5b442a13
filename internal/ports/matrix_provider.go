package ports

import (
	"context"
	"trip-route-service/internal/domain"
)

// Optional extension of DirectionsProvider that supports batched lookups.
type MatrixProvider interface {
	DirectionsProvider
	// Return costs between every ordered pair of points. A nil cell means
	// the provider could not route that pair.
	Matrix(ctx context.Context, points []domain.Coordinates, mode domain.TransportMode) ([][]*LegResult, error)
}
