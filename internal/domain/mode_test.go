package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransportMode(t *testing.T) {
	for in, want := range map[string]TransportMode{
		"driving":   ModeDriving,
		" TRANSIT ": ModeTransit,
		"Walking":   ModeWalking,
		"bicycling": ModeBicycling,
	} {
		got, err := ParseTransportMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseTransportMode("teleport")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAppleFlag(t *testing.T) {
	assert.Equal(t, "d", ModeDriving.AppleFlag())
	assert.Equal(t, "w", ModeWalking.AppleFlag())
	assert.Equal(t, "t", ModeTransit.AppleFlag())
	assert.Equal(t, "t", ModeBicycling.AppleFlag())
	assert.Equal(t, "walking", ModeWalking.Lower())
}
