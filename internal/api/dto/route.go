package dto

import (
	"trip-route-service/internal/domain"
	"trip-route-service/internal/services"
)

type ModeRequest struct {
	Mode string `json:"mode"`
}

// RouteRequest may omit mode to keep the session's current one.
type RouteRequest struct {
	Mode string `json:"mode"`
}

type LinksResponse struct {
	Google      string `json:"google"`
	// Apple is the native link on iOS and the web link elsewhere.
	Apple       string `json:"apple"`
	AppleNative string `json:"apple_native"`
	AppleWeb    string `json:"apple_web"`
}

// TransitLegSummary describes one leg of a transit trip.
type TransitLegSummary struct {
	Leg      int                  `json:"leg"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Mode     domain.TransportMode `json:"mode"`
	Duration string               `json:"duration"`
	Steps    []domain.TransitStep `json:"steps,omitempty"`
}

type RouteSummary struct {
	Stops     []string             `json:"stops"`
	Distance  string               `json:"distance"`
	Duration  string               `json:"duration"`
	Mode      domain.TransportMode `json:"mode"`
	Strategy  domain.Strategy      `json:"strategy"`
	Optimized bool                 `json:"optimized"`
	Transit   []TransitLegSummary  `json:"transit,omitempty"`
}

type RouteResponse struct {
	Plan    *domain.RoutePlan `json:"plan"`
	Summary RouteSummary      `json:"summary"`
	Links   LinksResponse     `json:"links"`
}

// NewRouteResponse renders plan for a client identified by userAgent.
func NewRouteResponse(plan *domain.RoutePlan, userAgent string) *RouteResponse {
	if plan == nil {
		return nil
	}

	stops := make([]string, 0, len(plan.Order))
	for _, p := range plan.Order {
		stops = append(stops, p.Label)
	}

	var transit []TransitLegSummary
	if plan.Mode == domain.ModeTransit {
		for i, leg := range plan.Legs {
			transit = append(transit, TransitLegSummary{
				Leg:      i + 1,
				From:     leg.From.Label,
				To:       leg.To.Label,
				Mode:     leg.Mode,
				Duration: domain.FormatDuration(leg.DurationSeconds),
				Steps:    leg.Transit,
			})
		}
	}

	return &RouteResponse{
		Plan: plan,
		Summary: RouteSummary{
			Stops:     stops,
			Distance:  domain.FormatKilometers(plan.TotalDistanceMeters),
			Duration:  domain.FormatDuration(plan.TotalDurationSeconds),
			Mode:      plan.Mode,
			Strategy:  plan.Strategy,
			Optimized: plan.Optimized,
			Transit:   transit,
		},
		Links: LinksResponse{
			Google:      plan.Links.Google,
			Apple:       plan.Links.Apple(userAgent),
			AppleNative: plan.Links.AppleNative,
			AppleWeb:    plan.Links.AppleWeb,
		},
	}
}

// SessionResponse is the full client-visible state.
type SessionResponse struct {
	Places     []domain.Place       `json:"places"`
	Mode       domain.TransportMode `json:"mode"`
	Route      *RouteResponse       `json:"route"`
	Notice     *domain.Notice       `json:"notice,omitempty"`
	Generation uint64               `json:"generation"`
	Computing  bool                 `json:"computing"`
}

func NewSessionResponse(s services.Snapshot, userAgent string) SessionResponse {
	return SessionResponse{
		Places:     s.Places,
		Mode:       s.Mode,
		Route:      NewRouteResponse(s.Plan, userAgent),
		Notice:     s.Notice,
		Generation: s.Generation,
		Computing:  s.Computing,
	}
}
