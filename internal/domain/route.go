package domain

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// One transit ride inside a leg (bus, train, ...).
type TransitStep struct {
	Line      string `json:"line"`
	Vehicle   string `json:"vehicle"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

// RouteLeg is one point-to-point segment of a multi-stop route.
// Mode is the mode actually used and may differ from RequestedMode
// when a transit leg fell back to walking.
type RouteLeg struct {
	From            Place         `json:"from"`
	To              Place         `json:"to"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
	Mode            TransportMode `json:"mode"`
	RequestedMode   TransportMode `json:"requested_mode"`
	Transit         []TransitStep `json:"transit,omitempty"`
}

// FellBack reports whether the provider routed this leg with a different
// mode than requested.
func (l RouteLeg) FellBack() bool { return l.Mode != l.RequestedMode }

// Strategy names the solver that produced a RouteOrder.
type Strategy string

const (
	StrategyExact           Strategy = "exact"
	StrategyNearestNeighbor Strategy = "nearest_neighbor"
)

// Deep links opening the route in external navigation apps.
type ExportLinks struct {
	Google      string `json:"google"`
	AppleNative string `json:"apple_native"`
	AppleWeb    string `json:"apple_web"`
}

var iosUserAgent = regexp.MustCompile(`iPad|iPhone|iPod`)

// IsIOS reports whether a User-Agent belongs to an iOS device.
func IsIOS(userAgent string) bool { return iosUserAgent.MatchString(userAgent) }

// Apple picks the native maps:// link on iOS and the web link elsewhere.
func (l ExportLinks) Apple(userAgent string) string {
	if IsIOS(userAgent) {
		return l.AppleNative
	}
	return l.AppleWeb
}

// Represents the computed route for the current set of places.
// A RoutePlan is derived data: it is replaced on every recomputation and
// never persisted.
type RoutePlan struct {
	Order                []Place       `json:"order"`
	Legs                 []RouteLeg    `json:"legs"`
	TotalDistanceMeters  float64       `json:"total_distance_meters"`
	TotalDurationSeconds float64       `json:"total_duration_seconds"`
	Mode                 TransportMode `json:"mode"`
	Strategy             Strategy      `json:"strategy"`
	Optimized            bool          `json:"optimized"`
	Path                 []Coordinates `json:"path,omitempty"`
	Links                ExportLinks   `json:"links"`
	Generation           uint64        `json:"generation"`
	ComputedAt           time.Time     `json:"computed_at"`
}

// Validate checks the structural invariants of a plan.
func (p *RoutePlan) Validate() error {
	if len(p.Order) < 2 {
		return fmt.Errorf("route plan: %w", ErrInsufficientPlaces)
	}
	if len(p.Legs) != len(p.Order)-1 {
		return fmt.Errorf("route plan: %d legs for %d stops", len(p.Legs), len(p.Order))
	}

	var dist, dur float64
	for i, leg := range p.Legs {
		if leg.From.ID != p.Order[i].ID || leg.To.ID != p.Order[i+1].ID {
			return fmt.Errorf("route plan: leg %d does not connect stops %d and %d", i, i, i+1)
		}
		if leg.DistanceMeters < 0 || leg.DurationSeconds < 0 {
			return fmt.Errorf("route plan: leg %d has negative metrics", i)
		}
		dist += leg.DistanceMeters
		dur += leg.DurationSeconds
	}

	if math.Abs(dist-p.TotalDistanceMeters) > 1e-6 || math.Abs(dur-p.TotalDurationSeconds) > 1e-6 {
		return fmt.Errorf("route plan: totals do not match leg sums")
	}
	return nil
}

// FormatDuration renders seconds as "1h 5min" or "12min".
func FormatDuration(seconds float64) string {
	s := int(seconds)
	hours := s / 3600
	minutes := (s % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	}
	return fmt.Sprintf("%dmin", minutes)
}

// FormatKilometers renders meters as kilometers with one decimal.
func FormatKilometers(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}
