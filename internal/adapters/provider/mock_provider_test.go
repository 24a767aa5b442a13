package provider

import (
	"context"
	"testing"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/geo"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderDefaultsAndOverrides(t *testing.T) {
	m := NewMockProvider()
	m.SetLeg(lyon, geneva, domain.ModeDriving, 150000, 5400)

	res, err := m.Directions(context.Background(), []domain.Coordinates{paris, lyon, geneva}, domain.ModeDriving)
	require.NoError(t, err)
	require.Len(t, res.Legs, 2)

	want := geo.Distance(paris, lyon) * m.ScaleFactor
	assert.InDelta(t, want, res.Legs[0].DistanceMeters, 1e-6)
	assert.InDelta(t, want/(50_000.0/3600), res.Legs[0].DurationSeconds, 1e-6)
	assert.Equal(t, 5400.0, res.Legs[1].DurationSeconds)

	// Overrides are directional.
	res, err = m.Directions(context.Background(), []domain.Coordinates{geneva, lyon}, domain.ModeDriving)
	require.NoError(t, err)
	assert.NotEqual(t, 5400.0, res.Legs[0].DurationSeconds)

	assert.Len(t, m.Calls(), 2)
}

func TestMockProviderFailures(t *testing.T) {
	m := NewMockProvider()
	m.FailMode(domain.ModeTransit, domain.ErrNoRouteFound)
	m.FailLeg(paris, lyon, domain.ModeWalking, domain.ErrProviderUnreachable)

	_, err := m.Directions(context.Background(), []domain.Coordinates{paris, lyon}, domain.ModeTransit)
	assert.ErrorIs(t, err, domain.ErrNoRouteFound)

	_, err = m.Directions(context.Background(), []domain.Coordinates{paris, lyon}, domain.ModeWalking)
	assert.ErrorIs(t, err, domain.ErrProviderUnreachable)

	_, err = m.Directions(context.Background(), []domain.Coordinates{lyon, paris}, domain.ModeWalking)
	assert.NoError(t, err)

	m.FailMode(domain.ModeTransit, nil)
	_, err = m.Directions(context.Background(), []domain.Coordinates{paris, lyon}, domain.ModeTransit)
	assert.NoError(t, err)
}

func TestMockProviderBlock(t *testing.T) {
	m := NewMockProvider()
	release := m.Block()

	done := make(chan error, 1)
	go func() {
		_, err := m.Directions(context.Background(), []domain.Coordinates{paris, lyon}, domain.ModeDriving)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("request returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	require.NoError(t, <-done)

	// Blocked requests still honour cancellation.
	m.Block()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Directions(ctx, []domain.Coordinates{paris, lyon}, domain.ModeDriving)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockProviderLookup(t *testing.T) {
	m := NewMockProvider()
	m.AddPlace("Louvre", ports.PlaceCandidate{
		ProviderID:  "louvre-1",
		Name:        "Louvre",
		Coordinates: domain.Coordinates{Lat: 48.8606, Lng: 2.3376},
	})

	c, err := m.SearchText(context.Background(), "  louvre ")
	require.NoError(t, err)
	assert.Equal(t, "Louvre", c.Name)

	c, err = m.Details(context.Background(), "louvre-1")
	require.NoError(t, err)
	assert.Equal(t, 48.8606, c.Coordinates.Lat)

	_, err = m.SearchText(context.Background(), "Orsay")
	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
}
