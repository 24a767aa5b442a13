package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput covers malformed user input (bad mode name, empty query, ...).
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInsufficientPlaces is returned when a route is requested with fewer than two places.
	ErrInsufficientPlaces = errors.New("at least 2 places are required to calculate a route")
	ErrPlaceNotFound      = errors.New("place not found")

	ErrProviderUnreachable = errors.New("routing provider unreachable")
	ErrNoRouteFound        = errors.New("no route found")
	ErrModeUnsupported     = errors.New("transport mode not supported by provider")

	// ErrStalePlan marks a computation superseded by a newer request.
	ErrStalePlan = errors.New("route computation superseded by a newer request")
)

// ErrorCategory is the user-facing failure class shown in notices.
type ErrorCategory string

const (
	CategoryNone                 ErrorCategory = ""
	CategoryInput                ErrorCategory = "input_error"
	CategoryNotFound             ErrorCategory = "not_found"
	CategoryProviderUnreachable  ErrorCategory = "provider_unreachable"
	CategoryNoRouteFound         ErrorCategory = "no_route_found"
	CategoryDegradedOptimization ErrorCategory = "degraded_optimization"
	CategoryStale                ErrorCategory = "stale"
	CategoryCanceled             ErrorCategory = "canceled"
	CategoryInternal             ErrorCategory = "internal"
)

// Classify maps an error chain to its category.
func Classify(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrStalePlan):
		return CategoryStale
	case errors.Is(err, ErrInsufficientPlaces),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidCoordinates):
		return CategoryInput
	case errors.Is(err, ErrPlaceNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrNoRouteFound), errors.Is(err, ErrModeUnsupported):
		return CategoryNoRouteFound
	case errors.Is(err, ErrProviderUnreachable):
		return CategoryProviderUnreachable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CategoryCanceled
	default:
		return CategoryInternal
	}
}

// Notice is a blocking, user-visible message describing the last failure
// or a degraded result.
type Notice struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
}

func NoticeFor(err error) *Notice {
	if err == nil {
		return nil
	}
	return &Notice{Category: Classify(err), Message: err.Error()}
}
