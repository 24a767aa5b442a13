package services

import (
	"trip-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func toPoint(c domain.Coordinates) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// RouteGeoJSON renders a plan as one Point feature per stop, in visiting
// order, followed by a LineString of the route geometry. Without provider
// geometry the line joins the stops directly.
func RouteGeoJSON(plan *domain.RoutePlan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if plan == nil {
		return fc
	}

	for i, p := range plan.Order {
		f := geojson.NewFeature(toPoint(p.Coordinates))
		f.ID = string(p.ID)
		f.Properties["kind"] = "stop"
		f.Properties["position"] = i + 1
		f.Properties["label"] = p.Label
		if p.Details.Address != "" {
			f.Properties["address"] = p.Details.Address
		}
		fc.Append(f)
	}

	path := plan.Path
	if len(path) < 2 {
		path = make([]domain.Coordinates, 0, len(plan.Order))
		for _, p := range plan.Order {
			path = append(path, p.Coordinates)
		}
	}

	line := make(orb.LineString, 0, len(path))
	for _, c := range path {
		line = append(line, toPoint(c))
	}

	f := geojson.NewFeature(line)
	f.Properties["kind"] = "route"
	f.Properties["mode"] = string(plan.Mode)
	f.Properties["strategy"] = string(plan.Strategy)
	f.Properties["distance_meters"] = plan.TotalDistanceMeters
	f.Properties["duration_seconds"] = plan.TotalDurationSeconds
	f.Properties["duration"] = domain.FormatDuration(plan.TotalDurationSeconds)
	fc.Append(f)

	return fc
}
