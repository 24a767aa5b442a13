package ports

import (
	"context"
	"trip-route-service/internal/domain"
)

// A place candidate returned by a lookup, before it enters the store.
type PlaceCandidate struct {
	ProviderID  string
	Name        string
	Coordinates domain.Coordinates
	Details     domain.PlaceDetails
}

// Contract for resolving user input into coordinates and metadata.
type PlaceLookup interface {
	// Return the best match for free text (autocomplete equivalent).
	SearchText(ctx context.Context, query string) (PlaceCandidate, error)
	// Return details for a provider place identifier.
	Details(ctx context.Context, providerID string) (PlaceCandidate, error)
	// Return the nearest address for coordinates.
	Reverse(ctx context.Context, coords domain.Coordinates) (PlaceCandidate, error)
}
