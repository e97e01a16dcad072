package service

import (
	"context"
	"errors"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/tier"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

// TierCache mirrors the Redis-backed tier cache. Get returns ("", nil) on a
// miss.
type TierCache interface {
	Get(ctx context.Context, userID string) (tier.Tier, error)
	Set(ctx context.Context, userID string, t tier.Tier) error
}

// cachedTierSource reads tiers through a short-TTL cache. Unknown users
// resolve to the free tier so listing flows never fail on tier lookup.
type cachedTierSource struct {
	users repository.UserRepository
	cache TierCache
	log   logger.Logger
	now   nowFunc
}

func NewCachedTierSource(users repository.UserRepository, cache TierCache, log logger.Logger) TierSource {
	return &cachedTierSource{users: users, cache: cache, log: log, now: time.Now}
}

func (s *cachedTierSource) CurrentTier(ctx context.Context, userID string) (tier.Tier, error) {
	if cached, err := s.cache.Get(ctx, userID); err == nil && cached != "" {
		return cached, nil
	} else if err != nil {
		s.log.Warnf("tier cache read failed for user %s: %v", userID, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return tier.Free, nil
		}
		return "", err
	}

	current := user.EffectiveTier(s.now())
	if err := s.cache.Set(ctx, userID, current); err != nil {
		s.log.Warnf("tier cache write failed for user %s: %v", userID, err)
	}
	return current, nil
}
