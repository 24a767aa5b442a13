package services

import (
	"context"
	"fmt"
	"sync"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// Snapshot is a consistent copy of session state.
type Snapshot struct {
	Places     []domain.Place       `json:"places"`
	Mode       domain.TransportMode `json:"mode"`
	Plan       *domain.RoutePlan    `json:"plan"`
	Notice     *domain.Notice       `json:"notice,omitempty"`
	Generation uint64               `json:"generation"`
	Computing  bool                 `json:"computing"`
}

// Session owns the place store, the active transport mode and the current
// plan. Every change that affects the route bumps a generation counter and
// cancels the in-flight computation; a result is only stored if its
// generation is still current.
//
// Listener callbacks run while the session lock is held and must not call
// back into the session.
type Session struct {
	planner  *RoutePlanner
	listener ports.RouteListener

	mu         sync.Mutex
	store      *PlaceStore
	mode       domain.TransportMode
	plan       *domain.RoutePlan
	notice     *domain.Notice
	generation uint64
	cancel     context.CancelFunc
}

func NewSession(planner *RoutePlanner, listener ports.RouteListener) *Session {
	if listener == nil {
		listener = nopListener{}
	}
	return &Session{
		planner:  planner,
		listener: listener,
		store:    NewPlaceStore(),
		mode:     domain.DefaultMode,
	}
}

// AddPlace appends a place and recomputes the route once two or more
// places exist. The route outcome is reported through Snapshot and the
// listener, not the returned error.
func (s *Session) AddPlace(ctx context.Context, p domain.Place) (domain.Place, error) {
	if err := p.Coordinates.Validate(); err != nil {
		return domain.Place{}, fmt.Errorf("add place: %w", err)
	}

	s.mu.Lock()
	added := s.store.Add(p)
	s.listener.PlacesChanged(s.store.List())
	enough := s.store.Len() >= 2
	s.mu.Unlock()

	if enough {
		s.recompute(ctx)
	}
	return added, nil
}

// RemovePlace deletes a place by ID. The route is recomputed when at
// least two places remain and cleared otherwise.
func (s *Session) RemovePlace(ctx context.Context, id domain.PlaceID) error {
	s.mu.Lock()
	if err := s.store.Remove(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener.PlacesChanged(s.store.List())

	if s.store.Len() < 2 {
		s.invalidateLocked(nil)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.recompute(ctx)
	return nil
}

// Clear removes every place, discards the plan and invalidates in-flight
// work.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	s.listener.PlacesChanged(s.store.List())
	s.invalidateLocked(nil)
}

// SetMode changes the active transport mode and recomputes the route when
// two or more places exist.
func (s *Session) SetMode(ctx context.Context, mode domain.TransportMode) {
	s.mu.Lock()
	s.mode = mode
	enough := s.store.Len() >= 2
	s.mu.Unlock()

	if enough {
		s.recompute(ctx)
	}
}

// CalculateOptimalRoute switches to mode and computes the route. With
// fewer than two places it fails with domain.ErrInsufficientPlaces and
// leaves the session untouched. A computation superseded by a later change
// fails with domain.ErrStalePlan.
func (s *Session) CalculateOptimalRoute(ctx context.Context, mode domain.TransportMode) (*domain.RoutePlan, error) {
	s.mu.Lock()
	if s.store.Len() < 2 {
		s.mu.Unlock()
		return nil, fmt.Errorf("calculate route: %w", domain.ErrInsufficientPlaces)
	}
	s.mode = mode
	s.mu.Unlock()

	return s.recompute(ctx)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Places:     s.store.List(),
		Mode:       s.mode,
		Plan:       s.plan,
		Notice:     s.notice,
		Generation: s.generation,
		Computing:  s.cancel != nil,
	}
}

// Plan returns the current plan, or nil.
func (s *Session) Plan() *domain.RoutePlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// invalidateLocked cancels in-flight work, bumps the generation and drops
// the plan. reason is recorded as the notice.
func (s *Session) invalidateLocked(reason error) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.plan = nil
	s.notice = domain.NoticeFor(reason)
	s.listener.PlanCleared(reason)
}

func (s *Session) recompute(ctx context.Context) (*domain.RoutePlan, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	places := s.store.List()
	mode := s.mode
	s.plan = nil

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	plan, err := s.planner.Plan(runCtx, places, mode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		obs.FromContext(ctx).Debug("discarding superseded route", "generation", gen, "current", s.generation)
		return nil, fmt.Errorf("calculate route: generation %d: %w", gen, domain.ErrStalePlan)
	}
	s.cancel = nil

	if err != nil {
		s.plan = nil
		s.notice = domain.NoticeFor(err)
		s.listener.PlanCleared(err)
		obs.LogError(obs.FromContext(ctx), "route computation failed", err)
		return nil, err
	}

	plan.Generation = gen
	s.plan = plan
	s.notice = nil
	if !plan.Optimized {
		s.notice = &domain.Notice{
			Category: domain.CategoryDegradedOptimization,
			Message:  "no order could be priced; showing places in the order they were added",
		}
	}
	s.listener.PlanUpdated(plan)

	return plan, nil
}

type nopListener struct{}

func (nopListener) PlacesChanged([]domain.Place)  {}
func (nopListener) PlanUpdated(*domain.RoutePlan) {}
func (nopListener) PlanCleared(error)             {}
