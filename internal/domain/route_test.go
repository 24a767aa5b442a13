package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlace(t *testing.T, label string, lat, lng float64) Place {
	t.Helper()
	p, err := NewPlace(Coordinates{Lat: lat, Lng: lng}, label, PlaceDetails{})
	require.NoError(t, err)
	return p
}

func TestRoutePlanValidate(t *testing.T) {
	a := testPlace(t, "A", 0, 0)
	b := testPlace(t, "B", 0, 1)
	c := testPlace(t, "C", 1, 1)

	plan := RoutePlan{
		Order: []Place{a, b, c},
		Legs: []RouteLeg{
			{From: a, To: b, DistanceMeters: 100, DurationSeconds: 60, Mode: ModeDriving, RequestedMode: ModeDriving},
			{From: b, To: c, DistanceMeters: 200, DurationSeconds: 90, Mode: ModeDriving, RequestedMode: ModeDriving},
		},
		TotalDistanceMeters:  300,
		TotalDurationSeconds: 150,
	}
	require.NoError(t, plan.Validate())

	t.Run("leg count mismatch", func(t *testing.T) {
		broken := plan
		broken.Legs = plan.Legs[:1]
		assert.Error(t, broken.Validate())
	})

	t.Run("totals mismatch", func(t *testing.T) {
		broken := plan
		broken.TotalDurationSeconds = 10
		assert.Error(t, broken.Validate())
	})

	t.Run("disconnected legs", func(t *testing.T) {
		broken := plan
		broken.Legs = []RouteLeg{plan.Legs[1], plan.Legs[0]}
		assert.Error(t, broken.Validate())
	})

	t.Run("too few stops", func(t *testing.T) {
		broken := RoutePlan{Order: []Place{a}}
		assert.True(t, errors.Is(broken.Validate(), ErrInsufficientPlaces))
	})
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0min", FormatDuration(0))
	assert.Equal(t, "12min", FormatDuration(12*60+59))
	assert.Equal(t, "1h 5min", FormatDuration(3900))
	assert.Equal(t, "2h 0min", FormatDuration(7200))
	assert.Equal(t, "12.3 km", FormatKilometers(12345))
}

func TestRouteLegFellBack(t *testing.T) {
	leg := RouteLeg{Mode: ModeWalking, RequestedMode: ModeTransit}
	assert.True(t, leg.FellBack())

	leg.Mode = ModeTransit
	assert.False(t, leg.FellBack())
}

func TestExportLinksApple(t *testing.T) {
	links := ExportLinks{AppleNative: "maps://?saddr=1,2", AppleWeb: "http://maps.apple.com/?saddr=1,2"}

	assert.Equal(t, links.AppleNative, links.Apple("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.Equal(t, links.AppleNative, links.Apple("Mozilla/5.0 (iPad; CPU OS 16_4 like Mac OS X)"))
	assert.Equal(t, links.AppleWeb, links.Apple("Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)"))
	assert.Equal(t, links.AppleWeb, links.Apple(""))
}
