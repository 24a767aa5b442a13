package domain

import (
	"fmt"
	"strings"
)

// TransportMode is the travel means governing cost and routing rules.
type TransportMode string

const (
	ModeDriving   TransportMode = "DRIVING"
	ModeTransit   TransportMode = "TRANSIT"
	ModeWalking   TransportMode = "WALKING"
	ModeBicycling TransportMode = "BICYCLING"
)

// DefaultMode is the mode a new session starts with.
const DefaultMode = ModeDriving

var modes = []TransportMode{ModeDriving, ModeTransit, ModeWalking, ModeBicycling}

// ParseTransportMode accepts any casing of a known mode name.
func ParseTransportMode(s string) (TransportMode, error) {
	m := TransportMode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown transport mode %q", ErrInvalidInput, s)
}

func (m TransportMode) Lower() string { return strings.ToLower(string(m)) }

// AppleFlag is the dirflg abbreviation used by Apple Maps links.
func (m TransportMode) AppleFlag() string {
	switch m {
	case ModeDriving:
		return "d"
	case ModeWalking:
		return "w"
	default:
		return "t"
	}
}
