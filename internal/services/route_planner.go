package services

import (
	"context"
	"fmt"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
)

// RoutePlanner orders places and routes them into a RoutePlan.
//
// Up to ExactThreshold places are ordered by exhaustive search over
// durations from the oracle; larger inputs use the nearest-neighbour
// heuristic on great-circle distance. The chosen order is then routed
// leg by leg (transit) or in a single request (other modes).
type RoutePlanner struct {
	oracle    *Oracle
	workers   int
	threshold int
	now       func() time.Time
}

func NewRoutePlanner(oracle *Oracle, workers int) *RoutePlanner {
	if workers < 1 {
		workers = 1
	}
	return &RoutePlanner{
		oracle:    oracle,
		workers:   workers,
		threshold: ExactThreshold,
		now:       time.Now,
	}
}

// Order chooses the visiting order for places.
func (p *RoutePlanner) Order(
	ctx context.Context,
	places []domain.Place,
	mode domain.TransportMode,
) (OrderResult, domain.Strategy, error) {
	stops := coordsOf(places)

	if len(places) > p.threshold {
		return OrderResult{Order: NearestNeighborOrder(stops), Optimized: true}, domain.StrategyNearestNeighbor, nil
	}

	table, err := p.oracle.DurationTable(ctx, stops, mode)
	if err != nil {
		return OrderResult{}, domain.StrategyExact, fmt.Errorf("order places: %w", err)
	}

	res, err := SolveExact(ctx, len(places), table.TotalDuration, p.workers)
	if err != nil {
		return OrderResult{}, domain.StrategyExact, fmt.Errorf("order places: %w", err)
	}
	return res, domain.StrategyExact, nil
}

// Plan computes a complete RoutePlan. It fails with
// domain.ErrInsufficientPlaces, without any provider call, when fewer
// than two places are given.
func (p *RoutePlanner) Plan(
	ctx context.Context,
	places []domain.Place,
	mode domain.TransportMode,
) (*domain.RoutePlan, error) {
	if len(places) < 2 {
		return nil, fmt.Errorf("plan route: %w", domain.ErrInsufficientPlaces)
	}

	res, strategy, err := p.Order(ctx, places, mode)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	if !res.Optimized {
		obs.FromContext(ctx).Warn("no routable order found, keeping input order",
			"places", len(places), "mode", string(mode))
	}

	ordered := make([]domain.Place, len(res.Order))
	for i, idx := range res.Order {
		ordered[i] = places[idx]
	}

	legs, path, err := p.oracle.ComputeRoute(ctx, ordered, mode)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	plan := &domain.RoutePlan{
		Order:      ordered,
		Legs:       legs,
		Mode:       mode,
		Strategy:   strategy,
		Optimized:  res.Optimized,
		Path:       path,
		Links:      BuildExportLinks(coordsOf(ordered), mode),
		ComputedAt: p.now(),
	}
	for _, leg := range legs {
		plan.TotalDistanceMeters += leg.DistanceMeters
		plan.TotalDurationSeconds += leg.DurationSeconds
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	return plan, nil
}
