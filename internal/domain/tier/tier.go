package tier

import "time"

// Tier is the account subscription level. It controls how long an active
// listing stays visible before it expires.
type Tier string

const (
	Free    Tier = "free"
	Premium Tier = "premium"
)

const (
	freeListingLifetime    = 48 * time.Hour
	premiumListingLifetime = 720 * time.Hour
)

// ListingLifetime maps a tier to the active-listing lifetime. Unknown tiers
// fall back to the free window: a shorter visibility window is a lower risk
// than failing the whole flow on a bad tier value.
func ListingLifetime(t Tier) time.Duration {
	switch t {
	case Premium:
		return premiumListingLifetime
	case Free:
		return freeListingLifetime
	default:
		return freeListingLifetime
	}
}
