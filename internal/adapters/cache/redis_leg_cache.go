package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const redisLegPrefix = "leg:"

// RedisLegCache stores leg costs as JSON strings with a TTL, so several
// service instances can share provider results.
type RedisLegCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLegCache(rdb *redis.Client, ttl time.Duration) *RedisLegCache {
	return &RedisLegCache{rdb: rdb, ttl: ttl}
}

type redisLeg struct {
	Meters  float64 `json:"m"`
	Seconds float64 `json:"s"`
}

func (r *RedisLegCache) GetLeg(ctx context.Context, key ports.LegKey) (_ ports.LegCost, _ bool, err error) {
	defer obs.Time(ctx, "leg.cache.redis.Get")(&err)

	raw, err := r.rdb.Get(ctx, redisLegPrefix+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.LegCost{}, false, nil
	}
	if err != nil {
		return ports.LegCost{}, false, fmt.Errorf("get leg cache: redis get: %w", err)
	}

	var v redisLeg
	if err := json.Unmarshal(raw, &v); err != nil {
		return ports.LegCost{}, false, fmt.Errorf("get leg cache: decode %s: %w", key, err)
	}

	return ports.LegCost{DistanceMeters: v.Meters, DurationSeconds: v.Seconds}, true, nil
}

func (r *RedisLegCache) PutLeg(ctx context.Context, key ports.LegKey, cost ports.LegCost) (err error) {
	defer obs.Time(ctx, "leg.cache.redis.Put")(&err)

	raw, err := json.Marshal(redisLeg{Meters: cost.DistanceMeters, Seconds: cost.DurationSeconds})
	if err != nil {
		return fmt.Errorf("insert leg cache: encode: %w", err)
	}

	if err := r.rdb.Set(ctx, redisLegPrefix+key.String(), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert leg cache: redis set: %w", err)
	}
	return nil
}

var _ ports.LegCache = (*RedisLegCache)(nil)
