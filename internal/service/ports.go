package service

import (
	"context"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/domain/tier"
)

// ListingCache is the injected cache abstraction the lifecycle service
// invalidates after every successful transition. Get returns (nil, nil) on a
// miss.
type ListingCache interface {
	Get(ctx context.Context, id string) (*entity.Listing, error)
	Set(ctx context.Context, listing *entity.Listing) error
	Invalidate(ctx context.Context, id string) error
}

// TierSource resolves a user's current account tier. Implementations may
// serve values stale by a short cache window.
type TierSource interface {
	CurrentTier(ctx context.Context, userID string) (tier.Tier, error)
}

// nowFunc lets tests pin the clock. Production code uses time.Now.
type nowFunc func() time.Time
