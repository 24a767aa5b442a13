package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

var (
	atCoordsPattern = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	placeIDPattern  = regexp.MustCompile(`place/([^/?#]+)`)
)

// ErrMapListUnresolved is returned when a shared map list link yields
// neither a place id nor coordinates that can be looked up.
var ErrMapListUnresolved = errors.New("could not process the map list")

// PlaceResolver turns user input (free text or a pasted map link) into a
// Place. Text searches and id lookups are cached when a PlaceCache is set.
type PlaceResolver struct {
	lookup ports.PlaceLookup
	cache  ports.PlaceCache
}

func NewPlaceResolver(lookup ports.PlaceLookup, cache ports.PlaceCache) *PlaceResolver {
	return &PlaceResolver{lookup: lookup, cache: cache}
}

// IsMapListLink reports whether input is a short shared-list link.
func IsMapListLink(input string) bool {
	return strings.Contains(input, "maps.app.goo.gl/") || strings.Contains(input, "goo.gl/maps/")
}

// IsMapURL reports whether input is a full map URL.
func IsMapURL(input string) bool {
	return strings.Contains(input, "google.com/maps")
}

// CoordinatesFromURL extracts the "@lat,lng" viewport centre of a map URL.
func CoordinatesFromURL(url string) (domain.Coordinates, bool) {
	m := atCoordsPattern.FindStringSubmatch(url)
	if m == nil {
		return domain.Coordinates{}, false
	}

	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return domain.Coordinates{}, false
	}

	c := domain.Coordinates{Lat: lat, Lng: lng}
	if c.Validate() != nil {
		return domain.Coordinates{}, false
	}
	return c, true
}

// Resolve classifies input and looks it up:
//   - a shared list link resolves its place id through Details, or its
//     coordinates through Reverse;
//   - a full map URL with coordinates becomes a place labelled by the URL;
//   - anything else is a text search.
func (r *PlaceResolver) Resolve(ctx context.Context, input string) (domain.Place, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Place{}, fmt.Errorf("resolve place: %w: enter an address or map URL", domain.ErrInvalidInput)
	}

	switch {
	case IsMapListLink(input):
		p, err := r.resolveListLink(ctx, input)
		if err != nil {
			return domain.Place{}, fmt.Errorf("resolve place: %w: %w", ErrMapListUnresolved, err)
		}
		return p, nil

	case IsMapURL(input):
		coords, ok := CoordinatesFromURL(input)
		if !ok {
			return domain.Place{}, fmt.Errorf("resolve place: %w: map URL has no coordinates", domain.ErrInvalidInput)
		}
		return domain.NewPlace(coords, input, domain.PlaceDetails{})

	default:
		c, err := r.cached(ctx, "q:"+strings.ToLower(strings.Join(strings.Fields(input), " ")), func() (ports.PlaceCandidate, error) {
			return r.lookup.SearchText(ctx, input)
		})
		if err != nil {
			return domain.Place{}, fmt.Errorf("resolve place %q: %w", input, err)
		}
		return placeFromCandidate(c)
	}
}

func (r *PlaceResolver) resolveListLink(ctx context.Context, link string) (domain.Place, error) {
	if m := placeIDPattern.FindStringSubmatch(link); m != nil {
		id := m[1]
		c, err := r.cached(ctx, "id:"+id, func() (ports.PlaceCandidate, error) {
			return r.lookup.Details(ctx, id)
		})
		if err != nil {
			return domain.Place{}, err
		}
		return placeFromCandidate(c)
	}

	coords, ok := CoordinatesFromURL(link)
	if !ok {
		return domain.Place{}, domain.ErrPlaceNotFound
	}

	c, err := r.lookup.Reverse(ctx, coords)
	if err != nil {
		return domain.Place{}, err
	}
	// List entries resolved by location are labelled by address only.
	label := c.Details.Address
	if label == "" {
		label = c.Name
	}
	return domain.NewPlace(coords, label, domain.PlaceDetails{})
}

// cached serves key from the place cache, calling fetch on a miss. Cache
// failures are logged and bypassed.
func (r *PlaceResolver) cached(
	ctx context.Context,
	key string,
	fetch func() (ports.PlaceCandidate, error),
) (ports.PlaceCandidate, error) {
	logger := obs.FromContext(ctx)

	if r.cache != nil {
		hits, err := r.cache.GetMany(ctx, []string{key})
		if err != nil {
			logger.Warn("place cache read failed", "key", key, "error", err)
		} else if c, ok := hits[key]; ok {
			return c, nil
		}
	}

	c, err := fetch()
	if err != nil {
		return ports.PlaceCandidate{}, err
	}

	if r.cache != nil {
		if err := r.cache.PutMany(ctx, map[string]ports.PlaceCandidate{key: c}); err != nil {
			logger.Warn("place cache write failed", "key", key, "error", err)
		}
	}
	return c, nil
}

func placeFromCandidate(c ports.PlaceCandidate) (domain.Place, error) {
	return domain.NewPlace(c.Coordinates, c.Name, c.Details)
}
