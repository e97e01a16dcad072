package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tcgbay/marketplace/internal/domain/tier"
)

// TierCache keeps per-user tier lookups off the hot path. Tiers are allowed
// to be stale by the cache window; a tier change converges within the TTL.
type TierCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTierCache(client *redis.Client, ttl time.Duration) *TierCache {
	return &TierCache{client: client, ttl: ttl}
}

func tierKey(userID string) string {
	return "tier:" + userID
}

// Get returns ("", nil) on a cache miss.
func (c *TierCache) Get(ctx context.Context, userID string) (tier.Tier, error) {
	value, err := c.client.Get(ctx, tierKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tier.Tier(value), nil
}

func (c *TierCache) Set(ctx context.Context, userID string, t tier.Tier) error {
	return c.client.Set(ctx, tierKey(userID), string(t), c.ttl).Err()
}

func (c *TierCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, tierKey(userID)).Err()
}
