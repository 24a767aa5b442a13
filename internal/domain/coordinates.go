package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports whether the coordinates are finite and inside the
// [-90,90] / [-180,180] ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: non-finite value (%v, %v)", ErrInvalidCoordinates, c.Lat, c.Lng)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinates, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinates, c.Lng)
	}
	return nil
}

// String formats the pair as "lat,lng" using the shortest decimal form,
// which is what map URLs and provider query strings expect.
func (c Coordinates) String() string {
	return formatDegrees(c.Lat) + "," + formatDegrees(c.Lng)
}

// Return coordinates as [lng, lat] for GeoJSON-style external APIs.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
