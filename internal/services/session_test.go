package services

import (
	"context"
	"sync"
	"testing"
	"time"
	"trip-route-service/internal/adapters/provider"
	"trip-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mu      sync.Mutex
	places  [][]domain.Place
	plans   []*domain.RoutePlan
	cleared []error
}

func (l *recordingListener) PlacesChanged(p []domain.Place) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.places = append(l.places, p)
}

func (l *recordingListener) PlanUpdated(p *domain.RoutePlan) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plans = append(l.plans, p)
}

func (l *recordingListener) PlanCleared(reason error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleared = append(l.cleared, reason)
}

func newTestSession(t *testing.T) (*Session, *provider.MockProvider, *recordingListener) {
	t.Helper()
	m := provider.NewMockProvider()
	l := &recordingListener{}
	return NewSession(NewRoutePlanner(NewOracle(m, nil, 4), 4), l), m, l
}

func TestSessionSinglePlaceIsInputError(t *testing.T) {
	s, m, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddPlace(ctx, place(t, "A", 0, 0))
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = s.CalculateOptimalRoute(ctx, domain.ModeWalking)
	assert.ErrorIs(t, err, domain.ErrInsufficientPlaces)
	assert.Equal(t, domain.CategoryInput, domain.Classify(err))
	assert.Empty(t, m.Calls())

	after := s.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, domain.DefaultMode, after.Mode)
}

func TestSessionAddComputesOnceTwoPlacesExist(t *testing.T) {
	s, _, l := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddPlace(ctx, place(t, "A", 0, 0))
	require.NoError(t, err)
	assert.Nil(t, s.Plan())

	_, err = s.AddPlace(ctx, place(t, "B", 0, 1))
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.Plan)
	assert.Len(t, snap.Plan.Order, 2)
	assert.Equal(t, snap.Generation, snap.Plan.Generation)
	assert.Nil(t, snap.Notice)
	assert.False(t, snap.Computing)

	assert.Len(t, l.places, 2)
	assert.Len(t, l.plans, 1)
}

func TestSessionRemoveKeepsIDsAndClearsBelowTwo(t *testing.T) {
	s, _, l := newTestSession(t)
	ctx := context.Background()

	a, _ := s.AddPlace(ctx, place(t, "A", 0, 0))
	b, _ := s.AddPlace(ctx, place(t, "B", 0, 1))
	c, _ := s.AddPlace(ctx, place(t, "C", 0, 2))

	require.NoError(t, s.RemovePlace(ctx, b.ID))
	snap := s.Snapshot()
	assert.Equal(t, []domain.PlaceID{a.ID, c.ID}, []domain.PlaceID{snap.Places[0].ID, snap.Places[1].ID})
	require.NotNil(t, snap.Plan)
	assert.Len(t, snap.Plan.Order, 2)

	require.NoError(t, s.RemovePlace(ctx, a.ID))
	snap = s.Snapshot()
	assert.Nil(t, snap.Plan)
	assert.Len(t, snap.Places, 1)
	assert.Equal(t, c.ID, snap.Places[0].ID)
	require.NotEmpty(t, l.cleared)
	assert.Nil(t, l.cleared[len(l.cleared)-1])

	assert.ErrorIs(t, s.RemovePlace(ctx, "missing"), domain.ErrPlaceNotFound)
}

func TestSessionFailureClearsPlan(t *testing.T) {
	s, m, l := newTestSession(t)
	ctx := context.Background()

	s.AddPlace(ctx, place(t, "A", 0, 0))
	s.AddPlace(ctx, place(t, "B", 0, 1))
	require.NotNil(t, s.Plan())

	m.FailMode(domain.ModeBicycling, domain.ErrProviderUnreachable)
	_, err := s.CalculateOptimalRoute(ctx, domain.ModeBicycling)
	assert.ErrorIs(t, err, domain.ErrProviderUnreachable)

	snap := s.Snapshot()
	assert.Nil(t, snap.Plan)
	assert.Equal(t, domain.ModeBicycling, snap.Mode)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, domain.CategoryProviderUnreachable, snap.Notice.Category)
	assert.ErrorIs(t, l.cleared[len(l.cleared)-1], domain.ErrProviderUnreachable)

	// A later success clears the notice.
	m.FailMode(domain.ModeBicycling, nil)
	plan, err := s.CalculateOptimalRoute(ctx, domain.ModeBicycling)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeBicycling, plan.Mode)
	assert.Nil(t, s.Snapshot().Notice)
}

func TestSessionSetModeRecomputes(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	s.SetMode(ctx, domain.ModeTransit)
	assert.Equal(t, domain.ModeTransit, s.Snapshot().Mode)
	assert.Nil(t, s.Plan())

	s.AddPlace(ctx, place(t, "A", 0, 0))
	s.AddPlace(ctx, place(t, "B", 0, 0.01))
	require.NotNil(t, s.Plan())
	assert.Equal(t, domain.ModeTransit, s.Plan().Mode)

	s.SetMode(ctx, domain.ModeWalking)
	require.NotNil(t, s.Plan())
	assert.Equal(t, domain.ModeWalking, s.Plan().Mode)
}

func TestSessionDegradedNotice(t *testing.T) {
	l := &recordingListener{}
	planner := NewRoutePlanner(NewOracle(pairlessProvider{provider.NewMockProvider()}, nil, 2), 2)
	s := NewSession(planner, l)
	ctx := context.Background()

	s.AddPlace(ctx, place(t, "A", 0, 0))
	s.AddPlace(ctx, place(t, "B", 0, 1))
	s.AddPlace(ctx, place(t, "C", 0, 2))

	snap := s.Snapshot()
	require.NotNil(t, snap.Plan)
	assert.False(t, snap.Plan.Optimized)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, domain.CategoryDegradedOptimization, snap.Notice.Category)
}

// waitForCalls blocks until the mock has seen more than n requests.
func waitForCalls(t *testing.T, m *provider.MockProvider, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(m.Calls()) > n }, time.Second, time.Millisecond)
}

func TestSessionClearDiscardsInFlightResult(t *testing.T) {
	s, m, l := newTestSession(t)
	ctx := context.Background()

	s.AddPlace(ctx, place(t, "A", 0, 0))
	s.AddPlace(ctx, place(t, "B", 0, 1))
	s.AddPlace(ctx, place(t, "C", 0, 2))
	plansBefore := len(l.plans)

	release := m.Block()
	defer release()
	baseline := len(m.Calls())

	done := make(chan error, 1)
	go func() {
		_, err := s.CalculateOptimalRoute(ctx, domain.ModeWalking)
		done <- err
	}()

	waitForCalls(t, m, baseline)
	assert.True(t, s.Snapshot().Computing)

	s.Clear()
	release()

	err := <-done
	assert.ErrorIs(t, err, domain.ErrStalePlan)
	assert.Equal(t, domain.CategoryStale, domain.Classify(err))

	snap := s.Snapshot()
	assert.Nil(t, snap.Plan)
	assert.Empty(t, snap.Places)
	assert.False(t, snap.Computing)
	assert.Len(t, l.plans, plansBefore)
}

func TestSessionNewerComputationWins(t *testing.T) {
	s, m, _ := newTestSession(t)
	ctx := context.Background()

	s.AddPlace(ctx, place(t, "A", 0, 0))
	s.AddPlace(ctx, place(t, "B", 0, 1))

	release := m.Block()
	baseline := len(m.Calls())

	first := make(chan error, 1)
	go func() {
		_, err := s.CalculateOptimalRoute(ctx, domain.ModeDriving)
		first <- err
	}()
	waitForCalls(t, m, baseline)

	second := make(chan error, 1)
	go func() {
		_, err := s.CalculateOptimalRoute(ctx, domain.ModeWalking)
		second <- err
	}()

	// The first computation is canceled as soon as the second starts.
	assert.ErrorIs(t, <-first, domain.ErrStalePlan)

	release()
	require.NoError(t, <-second)

	plan := s.Plan()
	require.NotNil(t, plan)
	assert.Equal(t, domain.ModeWalking, plan.Mode)
	assert.Equal(t, s.Snapshot().Generation, plan.Generation)
}
