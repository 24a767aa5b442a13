package services

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// ExactThreshold is the largest number of places ordered by exhaustive
// search. Larger inputs use the nearest-neighbour heuristic.
const ExactThreshold = 10

// ItineraryCost prices a visiting order given as indices into the place
// list. +Inf marks an order that cannot be routed. Implementations must be
// safe for concurrent use.
type ItineraryCost func(order []int) float64

// OrderResult is the outcome of an ordering solver.
type OrderResult struct {
	Order []int
	Cost  float64
	// Optimized is false when no order could be priced and the identity
	// order was returned instead.
	Optimized bool
}

type candidate struct {
	order []int
	cost  float64
	rank  int
}

// better orders candidates by cost, then by lexicographic rank.
func (c candidate) better(o candidate) bool {
	if c.order == nil {
		return false
	}
	if o.order == nil {
		return true
	}
	if c.cost != o.cost {
		return c.cost < o.cost
	}
	return c.rank < o.rank
}

const cancelCheckEvery = 1024

// SolveExact evaluates every ordering of n places and returns the cheapest
// one. Ties go to the ordering that comes first lexicographically. The
// search is split by leading element across up to workers goroutines; the
// result does not depend on the worker count.
func SolveExact(ctx context.Context, n int, cost ItineraryCost, workers int) (OrderResult, error) {
	if n <= 1 {
		return OrderResult{Order: identity(n), Cost: 0, Optimized: true}, nil
	}
	if workers < 1 {
		workers = 1
	}

	block := factorial(n - 1)
	best := make([]candidate, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for first := 0; first < n; first++ {
		g.Go(func() error {
			var local candidate
			k := 0
			for perm := range permutationsWithPrefix(n, first) {
				if k%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}

				c := cost(perm)
				if !math.IsInf(c, 1) && !math.IsNaN(c) {
					cand := candidate{cost: c, rank: first*block + k}
					if local.order == nil || cand.cost < local.cost {
						cand.order = append([]int(nil), perm...)
						local = cand
					}
				}
				k++
			}
			best[first] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return OrderResult{}, err
	}

	var winner candidate
	for _, c := range best {
		if c.better(winner) {
			winner = c
		}
	}

	if winner.order == nil {
		return OrderResult{Order: identity(n), Cost: math.Inf(1), Optimized: false}, nil
	}
	return OrderResult{Order: winner.order, Cost: winner.cost, Optimized: true}, nil
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
