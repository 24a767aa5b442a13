package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// GoogleProvider implements DirectionsProvider and PlaceLookup on top of
// the Google Maps web services (Directions, Places, Geocoding).
//
// The provider is safe for concurrent use.
type GoogleProvider struct {
	http    *client
	apiKey  string
	baseURL string
	now     func() time.Time
}

func NewGoogleProvider(apiKey string, requestsPerSecond int) (*GoogleProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google api key is empty")
	}

	return &GoogleProvider{
		http:    newClient(10*time.Second, requestsPerSecond, nil),
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com",
		now:     time.Now,
	}, nil
}

type googleValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type googleTransitDetails struct {
	Line struct {
		Name      string `json:"name"`
		ShortName string `json:"short_name"`
		Vehicle   struct {
			Name string `json:"name"`
		} `json:"vehicle"`
	} `json:"line"`
	DepartureTime struct {
		Text string `json:"text"`
	} `json:"departure_time"`
	ArrivalTime struct {
		Text string `json:"text"`
	} `json:"arrival_time"`
}

type googleStep struct {
	TravelMode     string                `json:"travel_mode"`
	TransitDetails *googleTransitDetails `json:"transit_details"`
}

type googleLeg struct {
	Distance googleValue  `json:"distance"`
	Duration googleValue  `json:"duration"`
	Steps    []googleStep `json:"steps"`
}

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []googleLeg `json:"legs"`
	} `json:"routes"`
}

// Directions requests one multi-stop route. Transit itineraries cannot
// carry waypoints, so transit requests must be a single leg.
func (g *GoogleProvider) Directions(
	ctx context.Context,
	stops []domain.Coordinates,
	mode domain.TransportMode,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "google.Directions")(&err)

	if len(stops) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w", domain.ErrInsufficientPlaces)
	}
	if mode == domain.ModeTransit && len(stops) > 2 {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w: transit with waypoints", domain.ErrModeUnsupported)
	}

	q := url.Values{}
	q.Set("origin", stops[0].String())
	q.Set("destination", stops[len(stops)-1].String())
	if len(stops) > 2 {
		waypoints := make([]string, 0, len(stops)-2)
		for _, s := range stops[1 : len(stops)-1] {
			waypoints = append(waypoints, s.String())
		}
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}
	q.Set("mode", mode.Lower())
	if mode == domain.ModeTransit {
		q.Set("departure_time", strconv.FormatInt(g.now().Unix(), 10))
		q.Set("transit_mode", "bus|rail|subway|train|tram")
		q.Set("transit_routing_preference", "fewer_transfers")
	}
	q.Set("key", g.apiKey)

	endpoint := g.baseURL + "/maps/api/directions/json?" + q.Encode()

	var dr googleDirectionsResponse
	if err := g.http.getJSON(ctx, endpoint, &dr); err != nil {
		return ports.DirectionsResult{}, classify("google directions", err)
	}

	if err := googleStatusError("google directions", dr.Status, dr.ErrorMessage, domain.ErrNoRouteFound); err != nil {
		return ports.DirectionsResult{}, err
	}

	if len(dr.Routes) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w: empty routes", domain.ErrNoRouteFound)
	}

	route := dr.Routes[0]
	if len(route.Legs) != len(stops)-1 {
		return ports.DirectionsResult{}, fmt.Errorf(
			"google directions: %w: expected %d legs, got %d",
			domain.ErrProviderUnreachable, len(stops)-1, len(route.Legs),
		)
	}

	out := ports.DirectionsResult{Legs: make([]ports.LegResult, 0, len(route.Legs))}
	for _, leg := range route.Legs {
		out.Legs = append(out.Legs, ports.LegResult{
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
			Transit:         transitSteps(leg.Steps),
		})
	}

	path, err := decodePolyline(route.OverviewPolyline.Points)
	if err != nil {
		obs.FromContext(ctx).Warn("google directions: ignoring bad overview polyline", "error", err)
	}
	out.Path = path

	return out, nil
}

func transitSteps(steps []googleStep) []domain.TransitStep {
	var out []domain.TransitStep
	for _, s := range steps {
		if s.TravelMode != "TRANSIT" || s.TransitDetails == nil {
			continue
		}

		td := s.TransitDetails
		line := td.Line.ShortName
		if line == "" {
			line = td.Line.Name
		}
		vehicle := td.Line.Vehicle.Name
		if vehicle == "" {
			vehicle = "Transit"
		}

		out = append(out, domain.TransitStep{
			Line:      line,
			Vehicle:   vehicle,
			Departure: td.DepartureTime.Text,
			Arrival:   td.ArrivalTime.Text,
		})
	}
	return out
}

// googleStatusError maps a Google web-service status to a domain error.
// notFound is used for ZERO_RESULTS / NOT_FOUND.
func googleStatusError(op, status, message string, notFound error) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return fmt.Errorf("%s: %w: status %s", op, notFound, status)
	default:
		if message != "" {
			return fmt.Errorf("%s: %w: status %s: %s", op, domain.ErrProviderUnreachable, status, message)
		}
		return fmt.Errorf("%s: %w: status %s", op, domain.ErrProviderUnreachable, status)
	}
}

var _ ports.DirectionsProvider = (*GoogleProvider)(nil)
