package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// ORSProvider implements DirectionsProvider, MatrixProvider and
// PlaceLookup using OpenRouteService.
//
// ORS has no public-transport profile: TRANSIT requests fail with
// domain.ErrModeUnsupported, which lets the oracle fall back to walking.
// The provider is safe for concurrent use.
type ORSProvider struct {
	http    *client
	baseURL string
}

func NewORSProvider(apiKey string, requestsPerSecond int) (*ORSProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSProvider{
		http: newClient(10*time.Second, requestsPerSecond, func(req *http.Request) {
			req.Header.Set("Authorization", apiKey)
		}),
		baseURL: "https://api.openrouteservice.org",
	}, nil
}

func orsProfile(mode domain.TransportMode) (string, error) {
	switch mode {
	case domain.ModeDriving:
		return "driving-car", nil
	case domain.ModeWalking:
		return "foot-walking", nil
	case domain.ModeBicycling:
		return "cycling-regular", nil
	default:
		return "", fmt.Errorf("ORS: %w: %s", domain.ErrModeUnsupported, mode)
	}
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Segments []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"segments"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// Directions computes one multi-stop route with /v2/directions/{profile}.
func (o *ORSProvider) Directions(
	ctx context.Context,
	stops []domain.Coordinates,
	mode domain.TransportMode,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if len(stops) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("ORS directions: %w", domain.ErrInsufficientPlaces)
	}

	profile, err := orsProfile(mode)
	if err != nil {
		return ports.DirectionsResult{}, err
	}

	body := directionsRequest{Coordinates: make([][]float64, 0, len(stops))}
	for _, s := range stops {
		body.Coordinates = append(body.Coordinates, s.CoordsToList())
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, profile)

	var dr directionsResponse
	if err := o.http.postJSON(ctx, endpoint, body, &dr); err != nil {
		return ports.DirectionsResult{}, classify("ORS directions", err)
	}

	if len(dr.Routes) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("ORS directions: %w: empty routes", domain.ErrNoRouteFound)
	}

	route := dr.Routes[0]
	if len(route.Segments) != len(stops)-1 {
		return ports.DirectionsResult{}, fmt.Errorf(
			"ORS directions: %w: expected %d segments, got %d",
			domain.ErrProviderUnreachable, len(stops)-1, len(route.Segments),
		)
	}

	out := ports.DirectionsResult{Legs: make([]ports.LegResult, 0, len(route.Segments))}
	for _, seg := range route.Segments {
		out.Legs = append(out.Legs, ports.LegResult{
			DistanceMeters:  seg.Distance,
			DurationSeconds: seg.Duration,
		})
	}

	path, err := decodePolyline(route.Geometry)
	if err != nil {
		obs.FromContext(ctx).Warn("ORS directions: ignoring bad geometry", "error", err)
	}
	out.Path = path

	return out, nil
}

var (
	_ ports.MatrixProvider = (*ORSProvider)(nil)
	_ ports.PlaceLookup    = (*ORSProvider)(nil)
)
