package services

import (
	"fmt"
	"trip-route-service/internal/domain"
)

// PlaceStore is the ordered list of places the user wants to visit.
// Insertion order is the input order for routing. It is not safe for
// concurrent use; Session serialises access.
type PlaceStore struct {
	places []domain.Place
}

func NewPlaceStore() *PlaceStore {
	return &PlaceStore{places: []domain.Place{}}
}

// Add appends p, assigning a fresh ID when it has none. Places with equal
// coordinates are kept as distinct stops.
func (s *PlaceStore) Add(p domain.Place) domain.Place {
	if p.ID == "" {
		p.ID = domain.NewPlaceID()
	}
	s.places = append(s.places, p)
	return p
}

// Remove deletes the place with the given ID, keeping the order of the
// rest.
func (s *PlaceStore) Remove(id domain.PlaceID) error {
	for i, p := range s.places {
		if p.ID == id {
			s.places = append(s.places[:i:i], s.places[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove place %q: %w", id, domain.ErrPlaceNotFound)
}

func (s *PlaceStore) Get(id domain.PlaceID) (domain.Place, bool) {
	for _, p := range s.places {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Place{}, false
}

func (s *PlaceStore) Clear() {
	s.places = []domain.Place{}
}

// List returns a copy of the places in insertion order.
func (s *PlaceStore) List() []domain.Place {
	return append([]domain.Place{}, s.places...)
}

func (s *PlaceStore) Len() int { return len(s.places) }
