package handlers

import (
	"fmt"
	"net/http"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/services"
)

type RouteHandler struct {
	Session *services.Session
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(h.Session.Snapshot(), r.UserAgent()))
}

// SetMode switches the transport mode; the route is recomputed when two or
// more places exist.
func (h *RouteHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req dto.ModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	mode, err := domain.ParseTransportMode(req.Mode)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.Session.SetMode(r.Context(), mode)
	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(h.Session.Snapshot(), r.UserAgent()))
}

// Calculate computes the optimal route. An empty body keeps the current mode.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	mode := h.Session.Snapshot().Mode
	if req.Mode != "" {
		var err error
		if mode, err = domain.ParseTransportMode(req.Mode); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	plan, err := h.Session.CalculateOptimalRoute(r.Context(), mode)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(plan, r.UserAgent()))
}

// GeoJSON exports the current plan as a FeatureCollection.
func (h *RouteHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	plan := h.Session.Plan()
	if plan == nil {
		writeError(w, r, http.StatusNotFound, "no route has been calculated")
		return
	}

	body, err := services.RouteGeoJSON(plan).MarshalJSON()
	if err != nil {
		writeDomainError(w, r, fmt.Errorf("encode geojson: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(body); err != nil {
		obs.LogError(obs.FromContext(r.Context()), "write geojson failed", err)
	}
}
