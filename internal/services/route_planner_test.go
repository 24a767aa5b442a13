package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"
	"trip-route-service/internal/adapters/provider"
	"trip-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutePlannerPlanCollinear(t *testing.T) {
	a, b, c := place(t, "A", 0, 0), place(t, "B", 0, 1), place(t, "C", 0, 2)

	m := provider.NewMockProvider()
	planner := NewRoutePlanner(NewOracle(m, nil, 4), 4)
	fixed := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	planner.now = func() time.Time { return fixed }

	// Input order B, C, A must still be visited end to end.
	plan, err := planner.Plan(context.Background(), []domain.Place{b, c, a}, domain.ModeDriving)
	require.NoError(t, err)

	got := labels(plan.Order)
	assert.Contains(t, [][]string{{"A", "B", "C"}, {"C", "B", "A"}}, got)
	assert.Equal(t, domain.StrategyExact, plan.Strategy)
	assert.True(t, plan.Optimized)
	assert.Equal(t, domain.ModeDriving, plan.Mode)
	assert.Equal(t, fixed, plan.ComputedAt)
	require.NoError(t, plan.Validate())

	var sum float64
	for _, leg := range plan.Legs {
		sum += leg.DurationSeconds
	}
	assert.Equal(t, sum, plan.TotalDurationSeconds)
	assert.Equal(t, BuildExportLinks(coordsOf(plan.Order), domain.ModeDriving), plan.Links)
}

func TestRoutePlannerEuclideanCorner(t *testing.T) {
	a, b, c := place(t, "A", 0, 0), place(t, "B", 0, 1), place(t, "C", 1, 1)
	pts := []domain.Place{a, b, c}

	m := provider.NewMockProvider()
	for _, from := range pts {
		for _, to := range pts {
			if from.ID == to.ID {
				continue
			}
			d := math.Hypot(from.Coordinates.Lat-to.Coordinates.Lat, from.Coordinates.Lng-to.Coordinates.Lng)
			m.SetLeg(from.Coordinates, to.Coordinates, domain.ModeDriving, d*1000, d*100)
		}
	}
	planner := NewRoutePlanner(NewOracle(m, nil, 3), 3)

	input := []domain.Place{c, a, b}
	order, strategy, err := planner.Order(context.Background(), input, domain.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyExact, strategy)

	got := make([]string, 0, len(order.Order))
	for _, i := range order.Order {
		got = append(got, input[i].Label)
	}
	assert.Contains(t, [][]string{{"A", "B", "C"}, {"C", "B", "A"}}, got)
	assert.InDelta(t, 200, order.Cost, 1e-9)
}

func TestRoutePlannerPicksCheapestByDuration(t *testing.T) {
	a, b, c := place(t, "A", 0, 0), place(t, "B", 0, 1), place(t, "C", 0, 2)

	m := provider.NewMockProvider()
	// Make the direct A -> C hop and the B -> A return cheap so that
	// B, A, C beats the geometric order.
	m.SetLeg(b.Coordinates, a.Coordinates, domain.ModeDriving, 1, 1)
	m.SetLeg(a.Coordinates, c.Coordinates, domain.ModeDriving, 1, 1)
	planner := NewRoutePlanner(NewOracle(m, nil, 2), 2)

	plan, err := planner.Plan(context.Background(), []domain.Place{a, b, c}, domain.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, labels(plan.Order))
}

func TestRoutePlannerNeedsTwoPlaces(t *testing.T) {
	m := provider.NewMockProvider()
	planner := NewRoutePlanner(NewOracle(m, nil, 1), 1)

	for _, places := range [][]domain.Place{nil, {place(t, "A", 0, 0)}} {
		_, err := planner.Plan(context.Background(), places, domain.ModeDriving)
		assert.ErrorIs(t, err, domain.ErrInsufficientPlaces)
		assert.Equal(t, domain.CategoryInput, domain.Classify(err))
	}
	assert.Empty(t, m.Calls())
}

func TestRoutePlannerThresholdBoundary(t *testing.T) {
	tests := []struct {
		n    int
		want domain.Strategy
	}{
		{ExactThreshold, domain.StrategyExact},
		{ExactThreshold + 1, domain.StrategyNearestNeighbor},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d places", tt.n), func(t *testing.T) {
			var places []domain.Place
			for i := 0; i < tt.n; i++ {
				places = append(places, place(t, fmt.Sprintf("p%d", i), 0, float64(i)*0.01))
			}
			planner := NewRoutePlanner(NewOracle(provider.NewMockProvider(), nil, 4), 4)

			plan, err := planner.Plan(context.Background(), places, domain.ModeDriving)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Strategy)
			assert.Len(t, plan.Legs, tt.n-1)
			require.NoError(t, plan.Validate())
		})
	}
}

func TestRoutePlannerHeuristicAboveThreshold(t *testing.T) {
	var places []domain.Place
	// Twelve stops on a line, added in a scrambled order.
	for _, i := range []int{0, 7, 3, 11, 1, 9, 5, 2, 10, 4, 8, 6} {
		places = append(places, place(t, string(rune('a'+i)), 0, float64(i)*0.01))
	}

	m := provider.NewMockProvider()
	planner := NewRoutePlanner(NewOracle(m, nil, 4), 4)

	plan, err := planner.Plan(context.Background(), places, domain.ModeWalking)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyNearestNeighbor, plan.Strategy)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}, labels(plan.Order))
	assert.Len(t, plan.Legs, 11)

	// Only the final route request reaches the provider.
	require.Len(t, m.Calls(), 1)
	assert.Len(t, m.Calls()[0].Stops, 12)
}

func TestRoutePlannerUnpricedPairsKeepInputOrder(t *testing.T) {
	a, b, c := place(t, "A", 0, 2), place(t, "B", 0, 0), place(t, "C", 0, 1)

	planner := NewRoutePlanner(NewOracle(pairlessProvider{provider.NewMockProvider()}, nil, 2), 2)

	plan, err := planner.Plan(context.Background(), []domain.Place{a, b, c}, domain.ModeDriving)
	require.NoError(t, err)
	assert.False(t, plan.Optimized)
	assert.Equal(t, []string{"A", "B", "C"}, labels(plan.Order))
}

func TestRoutePlannerRouteFailure(t *testing.T) {
	m := provider.NewMockProvider()
	m.FailMode(domain.ModeBicycling, domain.ErrProviderUnreachable)
	planner := NewRoutePlanner(NewOracle(m, nil, 2), 2)

	_, err := planner.Plan(context.Background(), []domain.Place{place(t, "A", 0, 0), place(t, "B", 0, 1)}, domain.ModeBicycling)
	assert.ErrorIs(t, err, domain.ErrProviderUnreachable)
	assert.Equal(t, domain.CategoryProviderUnreachable, domain.Classify(err))
}
