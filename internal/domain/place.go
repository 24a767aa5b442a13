package domain

import (
	"strings"

	"github.com/google/uuid"
)

// PlaceID is a stable opaque identifier. It never changes when other
// places are added or removed.
type PlaceID string

func NewPlaceID() PlaceID {
	return PlaceID(uuid.NewString())
}

// Optional descriptive metadata returned by place lookups.
type PlaceDetails struct {
	Address string   `json:"address,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
	Website string   `json:"website,omitempty"`
}

// Place is a stop the user wants to visit.
type Place struct {
	ID          PlaceID      `json:"id"`
	Coordinates Coordinates  `json:"coordinates"`
	Label       string       `json:"label"`
	Details     PlaceDetails `json:"details"`
}

// NewPlace builds a place with a freshly generated ID.
func NewPlace(coords Coordinates, label string, details PlaceDetails) (Place, error) {
	if err := coords.Validate(); err != nil {
		return Place{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = coords.String()
	}

	return Place{
		ID:          NewPlaceID(),
		Coordinates: coords,
		Label:       label,
		Details:     details,
	}, nil
}
