package entity

import (
	"time"

	"github.com/tcgbay/marketplace/internal/domain/tier"
)

// User carries the account fields the marketplace needs; identity itself is
// owned by the external auth provider.
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Email        string     `bson:"email" json:"email"`
	DisplayName  string     `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Tier         tier.Tier  `bson:"tier" json:"tier"`
	PremiumUntil *time.Time `bson:"premium_until,omitempty" json:"premium_until,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// EffectiveTier resolves the tier at a point in time. A lapsed premium
// subscription counts as free.
func (u *User) EffectiveTier(now time.Time) tier.Tier {
	if u.Tier == tier.Premium {
		if u.PremiumUntil == nil || now.Before(*u.PremiumUntil) {
			return tier.Premium
		}
		return tier.Free
	}
	return u.Tier
}

type Favorite struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
