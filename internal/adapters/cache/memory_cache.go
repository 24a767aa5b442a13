package cache

import (
	"context"
	"time"
	"trip-route-service/internal/ports"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLegCache keeps leg costs in process with a TTL.
type MemoryLegCache struct {
	c *gocache.Cache
}

func NewMemoryLegCache(ttl time.Duration) *MemoryLegCache {
	return &MemoryLegCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryLegCache) GetLeg(_ context.Context, key ports.LegKey) (ports.LegCost, bool, error) {
	v, ok := m.c.Get(key.String())
	if !ok {
		return ports.LegCost{}, false, nil
	}
	cost, ok := v.(ports.LegCost)
	return cost, ok, nil
}

func (m *MemoryLegCache) PutLeg(_ context.Context, key ports.LegKey, cost ports.LegCost) error {
	m.c.SetDefault(key.String(), cost)
	return nil
}

// Len reports the number of unexpired entries.
func (m *MemoryLegCache) Len() int { return m.c.ItemCount() }

var _ ports.LegCache = (*MemoryLegCache)(nil)

// MemoryPlaceCache keeps resolved place lookups in process with a TTL.
type MemoryPlaceCache struct {
	c *gocache.Cache
}

func NewMemoryPlaceCache(ttl time.Duration) *MemoryPlaceCache {
	return &MemoryPlaceCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryPlaceCache) GetMany(_ context.Context, queries []string) (map[string]ports.PlaceCandidate, error) {
	out := make(map[string]ports.PlaceCandidate, len(queries))
	for _, q := range uniqueQueries(queries) {
		if v, ok := m.c.Get(q); ok {
			if c, ok := v.(ports.PlaceCandidate); ok {
				out[q] = c
			}
		}
	}
	return out, nil
}

func (m *MemoryPlaceCache) PutMany(_ context.Context, results map[string]ports.PlaceCandidate) error {
	for q, c := range results {
		m.c.SetDefault(q, c)
	}
	return nil
}

var _ ports.PlaceCache = (*MemoryPlaceCache)(nil)
