package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

func (gr geocodeResponse) first(what string) (ports.PlaceCandidate, error) {
	if len(gr.Features) == 0 {
		return ports.PlaceCandidate{}, fmt.Errorf("no geocode results for %s: %w", what, domain.ErrPlaceNotFound)
	}

	f := gr.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return ports.PlaceCandidate{}, fmt.Errorf("invalid coordinate format for %s: %w", what, domain.ErrProviderUnreachable)
	}

	name := f.Properties.Name
	if name == "" {
		name = f.Properties.Label
	}

	return ports.PlaceCandidate{
		ProviderID: f.Properties.ID,
		Name:       name,
		Coordinates: domain.Coordinates{
			Lng: f.Geometry.Coordinates[0],
			Lat: f.Geometry.Coordinates[1],
		},
		Details: domain.PlaceDetails{Address: f.Properties.Label},
	}, nil
}

// normalize collapses whitespace so equivalent queries share cache keys.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SearchText resolves free text with /geocode/search.
func (o *ORSProvider) SearchText(ctx context.Context, query string) (_ ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "ors.SearchText")(&err)

	norm := normalize(query)
	if norm == "" {
		return ports.PlaceCandidate{}, fmt.Errorf("ORS search: %w: empty query", domain.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("text", norm)
	q.Set("size", "1")

	var gr geocodeResponse
	if err := o.http.getJSON(ctx, o.baseURL+"/geocode/search?"+q.Encode(), &gr); err != nil {
		return ports.PlaceCandidate{}, classify("ORS search", err)
	}

	return gr.first(strconv.Quote(norm))
}

// Details is not offered by ORS; provider ids from other services are
// never resolvable here.
func (o *ORSProvider) Details(ctx context.Context, providerID string) (ports.PlaceCandidate, error) {
	return ports.PlaceCandidate{}, fmt.Errorf("ORS details %q: %w: lookup by id is not supported", providerID, domain.ErrPlaceNotFound)
}

// Reverse resolves coordinates with /geocode/reverse.
func (o *ORSProvider) Reverse(ctx context.Context, coords domain.Coordinates) (_ ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "ors.Reverse")(&err)

	if err := coords.Validate(); err != nil {
		return ports.PlaceCandidate{}, fmt.Errorf("ORS reverse: %w", err)
	}

	q := url.Values{}
	q.Set("point.lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("point.lon", strconv.FormatFloat(coords.Lng, 'f', -1, 64))
	q.Set("size", "1")

	var gr geocodeResponse
	if err := o.http.getJSON(ctx, o.baseURL+"/geocode/reverse?"+q.Encode(), &gr); err != nil {
		return ports.PlaceCandidate{}, classify("ORS reverse", err)
	}

	c, err := gr.first(coords.String())
	if err != nil {
		return ports.PlaceCandidate{}, err
	}
	c.Coordinates = coords
	return c, nil
}
