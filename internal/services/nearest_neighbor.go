package services

import (
	"math"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/geo"
)

// NearestNeighborOrder builds a visiting order with a greedy
// nearest-neighbour walk over great-circle distance.
//
// The walk starts at the first stop and repeatedly moves to the closest
// unvisited one. It makes no provider calls and does not attempt global
// optimisation; it favours determinism and O(n²) cost over optimality.
func NearestNeighborOrder(stops []domain.Coordinates) []int {
	if len(stops) == 0 {
		return []int{}
	}

	visited := make([]bool, len(stops))
	order := make([]int, 0, len(stops))

	current := 0
	visited[current] = true
	order = append(order, current)

	for len(order) < len(stops) {
		best := -1
		minDistance := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		for i := range stops {
			if visited[i] {
				continue
			}
			d := geo.Distance(stops[current], stops[i])
			// Strict comparison keeps the lowest index on ties.
			if best == -1 || d < minDistance {
				minDistance = d
				best = i
			}
		}

		visited[best] = true
		order = append(order, best)
		current = best
	}

	return order
}
