package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

type googleLocation struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type googlePlace struct {
	googleLocation
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Phone            string   `json:"formatted_phone_number"`
	Rating           *float64 `json:"rating"`
	Website          string   `json:"website"`
}

func (p googlePlace) candidate() ports.PlaceCandidate {
	name := p.Name
	if name == "" {
		name = p.FormattedAddress
	}
	return ports.PlaceCandidate{
		ProviderID: p.PlaceID,
		Name:       name,
		Coordinates: domain.Coordinates{
			Lat: p.Geometry.Location.Lat,
			Lng: p.Geometry.Location.Lng,
		},
		Details: domain.PlaceDetails{
			Address: p.FormattedAddress,
			Phone:   p.Phone,
			Rating:  p.Rating,
			Website: p.Website,
		},
	}
}

const googleDetailFields = "place_id,name,geometry,formatted_address,rating,website,formatted_phone_number"

// SearchText finds the best match for free text and enriches it with
// place details (phone, website, rating).
func (g *GoogleProvider) SearchText(ctx context.Context, query string) (_ ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "google.SearchText")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return ports.PlaceCandidate{}, fmt.Errorf("google search: %w: empty query", domain.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id,name,geometry,formatted_address,rating")
	q.Set("key", g.apiKey)

	var resp struct {
		Status       string        `json:"status"`
		ErrorMessage string        `json:"error_message"`
		Candidates   []googlePlace `json:"candidates"`
	}
	if err := g.http.getJSON(ctx, g.baseURL+"/maps/api/place/findplacefromtext/json?"+q.Encode(), &resp); err != nil {
		return ports.PlaceCandidate{}, classify("google search", err)
	}
	if err := googleStatusError("google search", resp.Status, resp.ErrorMessage, domain.ErrPlaceNotFound); err != nil {
		return ports.PlaceCandidate{}, err
	}
	if len(resp.Candidates) == 0 {
		return ports.PlaceCandidate{}, fmt.Errorf("google search %q: %w", query, domain.ErrPlaceNotFound)
	}

	best := resp.Candidates[0]
	if best.PlaceID == "" {
		return best.candidate(), nil
	}

	detailed, err := g.Details(ctx, best.PlaceID)
	if err != nil {
		// Details only add optional metadata; keep the search hit.
		obs.FromContext(ctx).Warn("google search: details lookup failed", "place_id", best.PlaceID, "error", err)
		return best.candidate(), nil
	}
	return detailed, nil
}

// Details looks up a place by its Google place id.
func (g *GoogleProvider) Details(ctx context.Context, providerID string) (_ ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "google.Details")(&err)

	if strings.TrimSpace(providerID) == "" {
		return ports.PlaceCandidate{}, fmt.Errorf("google details: %w: empty place id", domain.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("place_id", providerID)
	q.Set("fields", googleDetailFields)
	q.Set("key", g.apiKey)

	var resp struct {
		Status       string      `json:"status"`
		ErrorMessage string      `json:"error_message"`
		Result       googlePlace `json:"result"`
	}
	if err := g.http.getJSON(ctx, g.baseURL+"/maps/api/place/details/json?"+q.Encode(), &resp); err != nil {
		return ports.PlaceCandidate{}, classify("google details", err)
	}
	if err := googleStatusError("google details", resp.Status, resp.ErrorMessage, domain.ErrPlaceNotFound); err != nil {
		return ports.PlaceCandidate{}, err
	}

	c := resp.Result.candidate()
	if c.ProviderID == "" {
		c.ProviderID = providerID
	}
	return c, nil
}

// Reverse resolves coordinates to the nearest formatted address.
func (g *GoogleProvider) Reverse(ctx context.Context, coords domain.Coordinates) (_ ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "google.Reverse")(&err)

	if err := coords.Validate(); err != nil {
		return ports.PlaceCandidate{}, fmt.Errorf("google reverse: %w", err)
	}

	q := url.Values{}
	q.Set("latlng", coords.String())
	q.Set("key", g.apiKey)

	var resp struct {
		Status       string        `json:"status"`
		ErrorMessage string        `json:"error_message"`
		Results      []googlePlace `json:"results"`
	}
	if err := g.http.getJSON(ctx, g.baseURL+"/maps/api/geocode/json?"+q.Encode(), &resp); err != nil {
		return ports.PlaceCandidate{}, classify("google reverse", err)
	}
	if err := googleStatusError("google reverse", resp.Status, resp.ErrorMessage, domain.ErrPlaceNotFound); err != nil {
		return ports.PlaceCandidate{}, err
	}
	if len(resp.Results) == 0 {
		return ports.PlaceCandidate{}, fmt.Errorf("google reverse %s: %w", coords, domain.ErrPlaceNotFound)
	}

	c := resp.Results[0].candidate()
	// Keep the exact coordinates the user pasted rather than the
	// geocoder's snapped point.
	c.Coordinates = coords
	return c, nil
}

var _ ports.PlaceLookup = (*GoogleProvider)(nil)
