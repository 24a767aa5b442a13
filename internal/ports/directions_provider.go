package ports

import (
	"context"
	"trip-route-service/internal/domain"
)

// Travel metrics for one leg as reported by a routing provider.
type LegResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	Transit         []domain.TransitStep
}

// Directions for an ordered itinerary: len(Legs) == len(stops)-1.
type DirectionsResult struct {
	Legs []LegResult
	// Path is the decoded overview geometry, if the provider returned one.
	Path []domain.Coordinates
}

// Contract for computing directions between ordered stops.
//
// Implementations wrap failures with domain.ErrNoRouteFound when the
// provider answered but found no route, domain.ErrModeUnsupported when the
// mode cannot be served, and domain.ErrProviderUnreachable otherwise.
type DirectionsProvider interface {
	Directions(ctx context.Context, stops []domain.Coordinates, mode domain.TransportMode) (DirectionsResult, error)
}
