package services

import (
	"context"
	"sync/atomic"
	"testing"
	"trip-route-service/internal/adapters/provider"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/require"
)

func place(t *testing.T, label string, lat, lng float64) domain.Place {
	t.Helper()
	p, err := domain.NewPlace(domain.Coordinates{Lat: lat, Lng: lng}, label, domain.PlaceDetails{})
	require.NoError(t, err)
	return p
}

func labels(places []domain.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Label
	}
	return out
}

// pairlessProvider fails every single-leg request but routes multi-stop
// itineraries, so pair pricing fails while full routing works.
type pairlessProvider struct {
	*provider.MockProvider
}

func (p pairlessProvider) Directions(ctx context.Context, stops []domain.Coordinates, mode domain.TransportMode) (ports.DirectionsResult, error) {
	if len(stops) == 2 {
		return ports.DirectionsResult{}, domain.ErrNoRouteFound
	}
	return p.MockProvider.Directions(ctx, stops, mode)
}

// matrixProvider serves Matrix from a fixed table and counts calls.
type matrixProvider struct {
	*provider.MockProvider
	table   [][]*ports.LegResult
	err     error
	batches atomic.Int32
}

func (p *matrixProvider) Matrix(ctx context.Context, points []domain.Coordinates, mode domain.TransportMode) ([][]*ports.LegResult, error) {
	p.batches.Add(1)
	return p.table, p.err
}
