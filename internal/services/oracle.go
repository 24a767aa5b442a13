package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Oracle answers travel-cost questions on top of a DirectionsProvider.
// Pair costs are memoised through an optional LegCache.
type Oracle struct {
	provider ports.DirectionsProvider
	cache    ports.LegCache
	workers  int
}

func NewOracle(provider ports.DirectionsProvider, cache ports.LegCache, workers int) *Oracle {
	if workers < 1 {
		workers = 1
	}
	return &Oracle{provider: provider, cache: cache, workers: workers}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func coordsOf(places []domain.Place) []domain.Coordinates {
	out := make([]domain.Coordinates, len(places))
	for i, p := range places {
		out[i] = p.Coordinates
	}
	return out
}

// ComputeLeg routes a single leg. A failed TRANSIT request is retried once
// as WALKING, and the returned leg records the mode actually used.
func (o *Oracle) ComputeLeg(ctx context.Context, from, to domain.Place, mode domain.TransportMode) (domain.RouteLeg, error) {
	leg, _, err := o.computeLeg(ctx, from, to, mode)
	return leg, err
}

func (o *Oracle) computeLeg(
	ctx context.Context,
	from, to domain.Place,
	mode domain.TransportMode,
) (domain.RouteLeg, []domain.Coordinates, error) {
	stops := []domain.Coordinates{from.Coordinates, to.Coordinates}
	used := mode

	res, err := o.provider.Directions(ctx, stops, mode)
	if err != nil && mode == domain.ModeTransit && ctx.Err() == nil {
		obs.FromContext(ctx).Info("transit leg failed, falling back to walking",
			"from", from.Label, "to", to.Label, "error", err)

		used = domain.ModeWalking
		res, err = o.provider.Directions(ctx, stops, used)
	}
	if err != nil {
		return domain.RouteLeg{}, nil, fmt.Errorf("compute leg %q -> %q (%s): %w", from.Label, to.Label, used, err)
	}
	if len(res.Legs) != 1 {
		return domain.RouteLeg{}, nil, fmt.Errorf(
			"compute leg %q -> %q: %w: got %d legs", from.Label, to.Label, domain.ErrProviderUnreachable, len(res.Legs),
		)
	}

	r := res.Legs[0]
	o.remember(ctx, ports.LegKey{Origin: from.Coordinates, Destination: to.Coordinates, Mode: used}, r)

	return domain.RouteLeg{
		From:            from,
		To:              to,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Mode:            used,
		RequestedMode:   mode,
		Transit:         r.Transit,
	}, res.Path, nil
}

// maxStopsPerRequest keeps multi-stop requests within the Google
// Directions limit of 25 waypoints between origin and destination.
const maxStopsPerRequest = 25

// ComputeRoute routes the full itinerary in the given order. Transit is
// requested leg by leg so each leg can fall back independently; other
// modes use multi-stop requests of at most maxStopsPerRequest stops that
// share their endpoints.
func (o *Oracle) ComputeRoute(
	ctx context.Context,
	places []domain.Place,
	mode domain.TransportMode,
) ([]domain.RouteLeg, []domain.Coordinates, error) {
	if len(places) < 2 {
		return nil, nil, fmt.Errorf("compute route: %w", domain.ErrInsufficientPlaces)
	}

	if mode == domain.ModeTransit {
		legs := make([]domain.RouteLeg, 0, len(places)-1)
		var path []domain.Coordinates
		for i := 0; i+1 < len(places); i++ {
			leg, legPath, err := o.computeLeg(ctx, places[i], places[i+1], mode)
			if err != nil {
				return nil, nil, fmt.Errorf("compute route: leg %d: %w", i, err)
			}
			legs = append(legs, leg)
			path = appendPath(path, legPath)
		}
		return legs, path, nil
	}

	legs := make([]domain.RouteLeg, 0, len(places)-1)
	var path []domain.Coordinates
	for start := 0; start+1 < len(places); {
		end := min(start+maxStopsPerRequest-1, len(places)-1)
		batch := places[start : end+1]

		res, err := o.provider.Directions(ctx, coordsOf(batch), mode)
		if err != nil {
			return nil, nil, fmt.Errorf("compute route: stops %d-%d: %w", start, end, err)
		}
		if len(res.Legs) != len(batch)-1 {
			return nil, nil, fmt.Errorf(
				"compute route: %w: expected %d legs, got %d", domain.ErrProviderUnreachable, len(batch)-1, len(res.Legs),
			)
		}

		for i, r := range res.Legs {
			o.remember(ctx, ports.LegKey{Origin: batch[i].Coordinates, Destination: batch[i+1].Coordinates, Mode: mode}, r)
			legs = append(legs, domain.RouteLeg{
				From:            batch[i],
				To:              batch[i+1],
				DistanceMeters:  r.DistanceMeters,
				DurationSeconds: r.DurationSeconds,
				Mode:            mode,
				RequestedMode:   mode,
				Transit:         r.Transit,
			})
		}
		path = appendPath(path, res.Path)
		start = end
	}

	return legs, path, nil
}

// appendPath joins leg geometries, dropping the repeated joint point.
func appendPath(path, next []domain.Coordinates) []domain.Coordinates {
	if len(path) > 0 && len(next) > 0 && path[len(path)-1] == next[0] {
		next = next[1:]
	}
	return append(path, next...)
}

// ComputeTotalDuration prices one itinerary leg by leg through the cache.
// It never fails: an unroutable leg makes the whole itinerary +Inf. The
// planner prices many orders at once through DurationTable.TotalDuration,
// which sums the same way over prefetched pairs.
func (o *Oracle) ComputeTotalDuration(ctx context.Context, stops []domain.Coordinates, mode domain.TransportMode) float64 {
	return itineraryDuration(len(stops)-1, func(k int) float64 {
		cost, err := o.legCost(ctx, stops[k], stops[k+1], mode)
		if err != nil {
			return math.Inf(1)
		}
		return cost.DurationSeconds
	})
}

// itineraryDuration sums leg(k) for k in [0, legs), stopping at the first
// +Inf leg.
func itineraryDuration(legs int, leg func(k int) float64) float64 {
	var total float64
	for k := 0; k < legs; k++ {
		total += leg(k)
		if math.IsInf(total, 1) {
			return total
		}
	}
	return total
}

// cacheable reports whether costs in mode can be reused later. Transit
// costs depend on the departure time and are always fetched fresh.
func cacheable(mode domain.TransportMode) bool {
	return mode != domain.ModeTransit
}

// legCost returns the cost of one directed leg, consulting the cache first.
func (o *Oracle) legCost(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (ports.LegCost, error) {
	key := ports.LegKey{Origin: from, Destination: to, Mode: mode}

	if o.cache != nil && cacheable(mode) {
		cost, ok, err := o.cache.GetLeg(ctx, key)
		if err != nil {
			obs.FromContext(ctx).Warn("leg cache read failed", "key", key.String(), "error", err)
		} else if ok {
			return cost, nil
		}
	}

	res, err := o.provider.Directions(ctx, []domain.Coordinates{from, to}, mode)
	if err != nil {
		return ports.LegCost{}, err
	}
	if len(res.Legs) != 1 {
		return ports.LegCost{}, fmt.Errorf("leg cost: %w: got %d legs", domain.ErrProviderUnreachable, len(res.Legs))
	}

	o.remember(ctx, key, res.Legs[0])
	return ports.LegCost{DistanceMeters: res.Legs[0].DistanceMeters, DurationSeconds: res.Legs[0].DurationSeconds}, nil
}

func (o *Oracle) remember(ctx context.Context, key ports.LegKey, r ports.LegResult) {
	if o.cache == nil || !cacheable(key.Mode) {
		return
	}
	cost := ports.LegCost{DistanceMeters: r.DistanceMeters, DurationSeconds: r.DurationSeconds}
	if err := o.cache.PutLeg(ctx, key, cost); err != nil {
		obs.FromContext(ctx).Warn("leg cache write failed", "key", key.String(), "error", err)
	}
}

// DurationTable holds the travel duration between every ordered pair of
// stops. Unroutable pairs are +Inf. It is read-only once built and safe
// for concurrent use.
type DurationTable struct {
	seconds [][]float64
}

func (t *DurationTable) Len() int { return len(t.seconds) }

// Cost returns the duration of the leg i -> j.
func (t *DurationTable) Cost(i, j int) float64 { return t.seconds[i][j] }

// TotalDuration prices a visiting order.
func (t *DurationTable) TotalDuration(order []int) float64 {
	return itineraryDuration(len(order)-1, func(k int) float64 {
		return t.seconds[order[k]][order[k+1]]
	})
}

// DurationTable fetches all pair costs among stops. Providers with a batch
// matrix endpoint are asked once; otherwise pairs are fetched concurrently.
// Only context errors are returned.
func (o *Oracle) DurationTable(
	ctx context.Context,
	stops []domain.Coordinates,
	mode domain.TransportMode,
) (_ *DurationTable, err error) {
	defer obs.Time(ctx, "oracle.DurationTable")(&err)

	n := len(stops)
	seconds := make([][]float64, n)
	for i := range seconds {
		seconds[i] = make([]float64, n)
	}

	if mp, ok := o.provider.(ports.MatrixProvider); ok && n > 1 {
		m, err := mp.Matrix(ctx, stops, mode)
		if err == nil {
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					if m[i][j] == nil {
						seconds[i][j] = math.Inf(1)
						continue
					}
					seconds[i][j] = m[i][j].DurationSeconds
					o.remember(ctx, ports.LegKey{Origin: stops[i], Destination: stops[j], Mode: mode}, *m[i][j])
				}
			}
			return &DurationTable{seconds: seconds}, nil
		}
		if isContextErr(err) {
			return nil, err
		}
		obs.FromContext(ctx).Warn("matrix lookup failed, pricing pairs individually", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			g.Go(func() error {
				cost, err := o.legCost(gctx, stops[i], stops[j], mode)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					seconds[i][j] = math.Inf(1)
					return nil
				}
				seconds[i][j] = cost.DurationSeconds
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &DurationTable{seconds: seconds}, nil
}
