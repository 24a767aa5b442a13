package ports

import (
	"context"
	"fmt"
	"math"
	"trip-route-service/internal/domain"
)

// Identifies a cached leg: origin, destination and requested mode.
type LegKey struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Mode        domain.TransportMode
}

// String rounds to 5 decimals (~1m) so equivalent points share a key.
func (k LegKey) String() string {
	return fmt.Sprintf("%s|%.5f,%.5f|%.5f,%.5f",
		k.Mode, round5(k.Origin.Lat), round5(k.Origin.Lng), round5(k.Destination.Lat), round5(k.Destination.Lng))
}

// Endpoints returns the rounded origin and destination as "lat,lng".
func (k LegKey) Endpoints() (origin, destination string) {
	return fmt.Sprintf("%.5f,%.5f", round5(k.Origin.Lat), round5(k.Origin.Lng)),
		fmt.Sprintf("%.5f,%.5f", round5(k.Destination.Lat), round5(k.Destination.Lng))
}

func round5(v float64) float64 { return math.Round(v*1e5) / 1e5 }

// Cached travel cost for a leg.
type LegCost struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for memoising leg costs between requests.
type LegCache interface {
	GetLeg(ctx context.Context, key LegKey) (LegCost, bool, error)
	PutLeg(ctx context.Context, key LegKey, cost LegCost) error
}
