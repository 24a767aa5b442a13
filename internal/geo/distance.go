// Package geo holds pure great-circle helpers used where live travel
// times are not needed.
package geo

import (
	"math"

	"trip-route-service/internal/domain"
)

// EarthMeanRadiusMeters is the IUGG mean radius of the Earth.
const EarthMeanRadiusMeters = 6371008.8

// Distance returns the haversine great-circle distance in meters.
// Latitudes outside [-90,90] are clamped and longitudes wrapped, so the
// result is always finite and non-negative.
func Distance(a, b domain.Coordinates) float64 {
	lat1 := toRadians(clampLat(a.Lat))
	lat2 := toRadians(clampLat(b.Lat))
	dLat := lat2 - lat1
	dLng := toRadians(wrapLng(b.Lng) - wrapLng(a.Lng))

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthMeanRadiusMeters * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func clampLat(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-90, math.Min(90, v))
}

func wrapLng(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= -180 && v <= 180 {
		return v
	}
	return math.Mod(math.Mod(v+180, 360)+360, 360) - 180
}
