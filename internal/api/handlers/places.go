package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/services"

	"github.com/julienschmidt/httprouter"
)

// PlaceHandler exposes the session's place store.
type PlaceHandler struct {
	Session  *services.Session
	Resolver *services.PlaceResolver
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ListPlacesResponse{Places: h.Session.Snapshot().Places})
}

// Add resolves the request into a place and appends it. The route is
// recomputed before responding; its outcome is part of the returned state.
func (h *PlaceHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPlaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	p, err := h.resolve(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	added, err := h.Session.AddPlace(r.Context(), p)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.AddPlaceResponse{
		Place: added,
		State: dto.NewSessionResponse(h.Session.Snapshot(), r.UserAgent()),
	})
}

func (h *PlaceHandler) resolve(ctx context.Context, req dto.AddPlaceRequest) (domain.Place, error) {
	hasQuery := strings.TrimSpace(req.Query) != ""
	hasCoords := req.Lat != nil || req.Lng != nil

	switch {
	case hasQuery && hasCoords:
		return domain.Place{}, fmt.Errorf("%w: provide either query or lat/lng, not both", domain.ErrInvalidInput)
	case hasQuery:
		return h.Resolver.Resolve(ctx, req.Query)
	case req.Lat != nil && req.Lng != nil:
		var details domain.PlaceDetails
		if req.Details != nil {
			details = *req.Details
		}
		return domain.NewPlace(domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng}, req.Label, details)
	default:
		return domain.Place{}, fmt.Errorf("%w: query or both lat and lng are required", domain.ErrInvalidInput)
	}
}

func (h *PlaceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if err := h.Session.RemovePlace(r.Context(), domain.PlaceID(id)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(h.Session.Snapshot(), r.UserAgent()))
}

func (h *PlaceHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Session.Clear()
	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(h.Session.Snapshot(), r.UserAgent()))
}
