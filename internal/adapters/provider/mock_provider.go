package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/geo"
	"trip-route-service/internal/ports"
)

// MockCall records one Directions request.
type MockCall struct {
	Stops []domain.Coordinates
	Mode  domain.TransportMode
}

// MockProvider is an offline provider for development and tests. Leg
// costs default to great-circle distance times ScaleFactor at a fixed
// per-mode speed; SetLeg overrides a pair, FailMode and FailLeg inject
// errors, and Block holds requests until the returned release is called.
type MockProvider struct {
	ScaleFactor float64

	mu        sync.Mutex
	speeds    map[domain.TransportMode]float64
	legs      map[string]ports.LegResult
	failModes map[domain.TransportMode]error
	failLegs  map[string]error
	places    map[string]ports.PlaceCandidate
	calls     []MockCall
	gate      chan struct{}
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		ScaleFactor: 1.3,
		// meters per second
		speeds: map[domain.TransportMode]float64{
			domain.ModeDriving:   50_000.0 / 3600,
			domain.ModeTransit:   25_000.0 / 3600,
			domain.ModeBicycling: 15_000.0 / 3600,
			domain.ModeWalking:   5_000.0 / 3600,
		},
		legs:      make(map[string]ports.LegResult),
		failModes: make(map[domain.TransportMode]error),
		failLegs:  make(map[string]error),
		places:    make(map[string]ports.PlaceCandidate),
	}
}

func mockKey(from, to domain.Coordinates, mode domain.TransportMode) string {
	return ports.LegKey{Origin: from, Destination: to, Mode: mode}.String()
}

// SetLeg fixes the cost of the directed leg from -> to for mode.
func (m *MockProvider) SetLeg(from, to domain.Coordinates, mode domain.TransportMode, meters, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.legs[mockKey(from, to, mode)] = ports.LegResult{DistanceMeters: meters, DurationSeconds: seconds}
}

// FailMode makes every request in mode fail with err. A nil err clears it.
func (m *MockProvider) FailMode(mode domain.TransportMode, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failModes, mode)
		return
	}
	m.failModes[mode] = err
}

// FailLeg makes any request containing the directed leg from -> to in mode
// fail with err.
func (m *MockProvider) FailLeg(from, to domain.Coordinates, mode domain.TransportMode, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLegs[mockKey(from, to, mode)] = err
}

// AddPlace registers a lookup result for a text query.
func (m *MockProvider) AddPlace(query string, c ports.PlaceCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places[strings.ToLower(normalize(query))] = c
}

// Block makes subsequent Directions calls wait until release is called
// or their context ends.
func (m *MockProvider) Block() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.gate == gate {
				m.gate = nil
			}
			m.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns a copy of the recorded Directions requests.
func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

func (m *MockProvider) Directions(
	ctx context.Context,
	stops []domain.Coordinates,
	mode domain.TransportMode,
) (ports.DirectionsResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Stops: append([]domain.Coordinates(nil), stops...), Mode: mode})
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ports.DirectionsResult{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return ports.DirectionsResult{}, err
	}

	if len(stops) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("mock directions: %w", domain.ErrInsufficientPlaces)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failModes[mode]; ok {
		return ports.DirectionsResult{}, fmt.Errorf("mock directions %s: %w", mode, err)
	}

	speed, ok := m.speeds[mode]
	if !ok {
		return ports.DirectionsResult{}, fmt.Errorf("mock directions: %w: %s", domain.ErrModeUnsupported, mode)
	}

	out := ports.DirectionsResult{
		Legs: make([]ports.LegResult, 0, len(stops)-1),
		Path: append([]domain.Coordinates(nil), stops...),
	}
	for i := 0; i+1 < len(stops); i++ {
		key := mockKey(stops[i], stops[i+1], mode)
		if err, ok := m.failLegs[key]; ok {
			return ports.DirectionsResult{}, fmt.Errorf("mock directions %s: %w", key, err)
		}
		if leg, ok := m.legs[key]; ok {
			out.Legs = append(out.Legs, leg)
			continue
		}

		meters := geo.Distance(stops[i], stops[i+1]) * m.ScaleFactor
		out.Legs = append(out.Legs, ports.LegResult{
			DistanceMeters:  meters,
			DurationSeconds: meters / speed,
		})
	}

	return out, nil
}

func (m *MockProvider) SearchText(ctx context.Context, query string) (ports.PlaceCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.places[strings.ToLower(normalize(query))]; ok {
		return c, nil
	}
	return ports.PlaceCandidate{}, fmt.Errorf("mock search %q: %w", query, domain.ErrPlaceNotFound)
}

func (m *MockProvider) Details(ctx context.Context, providerID string) (ports.PlaceCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.places {
		if c.ProviderID == providerID {
			return c, nil
		}
	}
	return ports.PlaceCandidate{}, fmt.Errorf("mock details %q: %w", providerID, domain.ErrPlaceNotFound)
}

func (m *MockProvider) Reverse(ctx context.Context, coords domain.Coordinates) (ports.PlaceCandidate, error) {
	if err := coords.Validate(); err != nil {
		return ports.PlaceCandidate{}, fmt.Errorf("mock reverse: %w", err)
	}
	return ports.PlaceCandidate{Name: coords.String(), Coordinates: coords}, nil
}

var (
	_ ports.DirectionsProvider = (*MockProvider)(nil)
	_ ports.PlaceLookup        = (*MockProvider)(nil)
)
