package surge

import (
	"context"
	"math"

	"github.com/redis/go-redis/v9"
)

const overrideKey = "surge:override"

// RedisOverride stores an operator-set surge multiplier in Redis so
// every instance sees the same value.
type RedisOverride struct {
	client *redis.Client
}

// NewRedisOverride creates a Redis-backed override store
func NewRedisOverride(client *redis.Client) *RedisOverride {
	return &RedisOverride{client: client}
}

// Get returns the override multiplier and whether one is set
func (s *RedisOverride) Get(ctx context.Context) (float64, bool, error) {
	v, err := s.client.Get(ctx, overrideKey).Float64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// Set stores the override multiplier, clamped to the valid range
func (s *RedisOverride) Set(ctx context.Context, multiplier float64) error {
	multiplier = math.Min(math.Max(multiplier, MinMultiplier), MaxMultiplier)
	return s.client.Set(ctx, overrideKey, multiplier, 0).Err()
}

// Clear removes the override so the heuristic applies again
func (s *RedisOverride) Clear(ctx context.Context) error {
	return s.client.Del(ctx, overrideKey).Err()
}
