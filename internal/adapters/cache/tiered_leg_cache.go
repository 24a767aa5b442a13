package cache

import (
	"context"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// TieredLegCache reads through a fast cache in front of a durable one and
// writes to both. A failing durable tier is logged and treated as a miss.
type TieredLegCache struct {
	Front ports.LegCache
	Back  ports.LegCache
}

func NewTieredLegCache(front, back ports.LegCache) *TieredLegCache {
	return &TieredLegCache{Front: front, Back: back}
}

func (t *TieredLegCache) GetLeg(ctx context.Context, key ports.LegKey) (ports.LegCost, bool, error) {
	if cost, ok, err := t.Front.GetLeg(ctx, key); err == nil && ok {
		return cost, true, nil
	}

	cost, ok, err := t.Back.GetLeg(ctx, key)
	if err != nil {
		obs.FromContext(ctx).Warn("leg cache: durable tier read failed", "key", key.String(), "error", err)
		return ports.LegCost{}, false, nil
	}
	if !ok {
		return ports.LegCost{}, false, nil
	}

	if err := t.Front.PutLeg(ctx, key, cost); err != nil {
		obs.FromContext(ctx).Warn("leg cache: front tier write failed", "key", key.String(), "error", err)
	}
	return cost, true, nil
}

func (t *TieredLegCache) PutLeg(ctx context.Context, key ports.LegKey, cost ports.LegCost) error {
	if err := t.Front.PutLeg(ctx, key, cost); err != nil {
		return err
	}
	if err := t.Back.PutLeg(ctx, key, cost); err != nil {
		obs.FromContext(ctx).Warn("leg cache: durable tier write failed", "key", key.String(), "error", err)
	}
	return nil
}

var _ ports.LegCache = (*TieredLegCache)(nil)
