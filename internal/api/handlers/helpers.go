package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
)

// nginx's code for a client that went away before the response.
const statusClientClosedRequest = 499

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error    string               `json:"error"`
	Category domain.ErrorCategory `json:"category,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.LogError(obs.FromContext(r.Context()), "encode response failed", err,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeDomainError maps err to a status code by category. Internal errors
// are logged and hidden from the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		obs.LogError(obs.FromContext(r.Context()), "request failed", err, slog.String("path", r.URL.Path))
		msg = "internal server error"
	}
	writeJSON(w, r, status, errorResponse{Error: msg, Category: domain.Classify(err)})
}

func statusFor(err error) int {
	switch domain.Classify(err) {
	case domain.CategoryNone:
		return http.StatusOK
	case domain.CategoryInput:
		if errors.Is(err, domain.ErrInsufficientPlaces) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case domain.CategoryNotFound:
		return http.StatusNotFound
	case domain.CategoryNoRouteFound:
		return http.StatusUnprocessableEntity
	case domain.CategoryProviderUnreachable:
		return http.StatusBadGateway
	case domain.CategoryStale:
		return http.StatusConflict
	case domain.CategoryCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads exactly one JSON object into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json body", domain.ErrInvalidInput)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must contain only one JSON object", domain.ErrInvalidInput)
	}
	return nil
}
