package ports

import "trip-route-service/internal/domain"

// Receives session state changes for rendering (markers, lines, summary).
type RouteListener interface {
	PlacesChanged(places []domain.Place)
	PlanUpdated(plan *domain.RoutePlan)
	// PlanCleared is called when the current plan is discarded; reason is
	// nil when the store simply dropped below two places.
	PlanCleared(reason error)
}
