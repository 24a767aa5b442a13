package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
)

// uniqueQueries trims and de-duplicates lookup keys, dropping empty ones.
func uniqueQueries(queries []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}

		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		uniq = append(uniq, q)
	}
	return uniq
}

type placeRow struct {
	query      string
	providerID string
	name       string
	lat, lng   float64
	details    string
}

func (r placeRow) candidate() (ports.PlaceCandidate, error) {
	var details domain.PlaceDetails
	if r.details != "" {
		if err := json.Unmarshal([]byte(r.details), &details); err != nil {
			return ports.PlaceCandidate{}, fmt.Errorf("decode details for %q: %w", r.query, err)
		}
	}
	return ports.PlaceCandidate{
		ProviderID:  r.providerID,
		Name:        r.name,
		Coordinates: domain.Coordinates{Lat: r.lat, Lng: r.lng},
		Details:     details,
	}, nil
}

func encodeDetails(d domain.PlaceDetails) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
