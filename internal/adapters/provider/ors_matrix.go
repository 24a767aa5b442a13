package provider

import (
	"context"
	"fmt"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// Matrix retrieves distance and duration between every ordered pair of
// points with a single /v2/matrix/{profile} call.
func (o *ORSProvider) Matrix(
	ctx context.Context,
	points []domain.Coordinates,
	mode domain.TransportMode,
) (_ [][]*ports.LegResult, err error) {
	defer obs.Time(ctx, "ors.Matrix")(&err)

	n := len(points)
	if n == 0 {
		return [][]*ports.LegResult{}, nil
	}

	profile, err := orsProfile(mode)
	if err != nil {
		return nil, err
	}

	body := matrixRequest{
		Locations: make([][]float64, 0, n),
		Metrics:   []string{"distance", "duration"},
	}
	for _, p := range points {
		body.Locations = append(body.Locations, p.CoordsToList())
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, profile)

	var mr matrixResponse
	if err := o.http.postJSON(ctx, endpoint, body, &mr); err != nil {
		return nil, classify("ORS matrix", err)
	}

	if len(mr.Distances) != n || len(mr.Durations) != n {
		return nil, fmt.Errorf(
			"ORS matrix: %w: expected %d rows; got distances=%d durations=%d",
			domain.ErrProviderUnreachable, n, len(mr.Distances), len(mr.Durations),
		)
	}

	out := make([][]*ports.LegResult, n)
	for i := 0; i < n; i++ {
		if len(mr.Distances[i]) != n || len(mr.Durations[i]) != n {
			return nil, fmt.Errorf("ORS matrix: %w: row %d has wrong length", domain.ErrProviderUnreachable, i)
		}

		out[i] = make([]*ports.LegResult, n)
		for j := 0; j < n; j++ {
			meters, seconds := mr.Distances[i][j], mr.Durations[i][j]
			// ORS reports null for pairs it cannot route.
			if meters == nil || seconds == nil {
				continue
			}
			out[i][j] = &ports.LegResult{DistanceMeters: *meters, DurationSeconds: *seconds}
		}
	}

	return out, nil
}
