package dto

import "trip-route-service/internal/domain"

// AddPlaceRequest carries either a free-form query (address, place name or
// map URL) or explicit coordinates.
type AddPlaceRequest struct {
	Query   string               `json:"query"`
	Lat     *float64             `json:"lat"`
	Lng     *float64             `json:"lng"`
	Label   string               `json:"label"`
	Details *domain.PlaceDetails `json:"details"`
}

type ListPlacesResponse struct {
	Places []domain.Place `json:"places"`
}

type AddPlaceResponse struct {
	Place domain.Place    `json:"place"`
	State SessionResponse `json:"state"`
}
