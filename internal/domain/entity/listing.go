package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/tier"
)

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingArchived ListingStatus = "archived"
	ListingSold     ListingStatus = "sold"
)

// ArchiveRetention is how long an archived listing survives before a sweep
// permanently removes it. Fixed, independent of the owner's tier.
const ArchiveRetention = 7 * 24 * time.Hour

// ErrInvalidTransition is returned when a lifecycle operation is invoked from
// a status that does not permit it. Callers should only offer actions valid
// for the current status, so hitting this is a programming error, not a
// user-facing one.
var ErrInvalidTransition = errors.New("invalid listing status transition")

type CardCondition string

const (
	ConditionMint          CardCondition = "mint"
	ConditionNearMint      CardCondition = "near_mint"
	ConditionLightlyPlayed CardCondition = "lightly_played"
	ConditionPlayed        CardCondition = "played"
	ConditionDamaged       CardCondition = "damaged"
)

// Listing is a card for sale. The lifecycle fields (Status, ArchivedAt,
// ExpiresAt, the Previous* snapshots, CreatedAt) are only mutated through the
// methods below; the descriptive fields are opaque payload the lifecycle
// never reads.
type Listing struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`

	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Game        string        `bson:"game" json:"game"`
	Condition   CardCondition `bson:"condition" json:"condition"`
	Price       float64       `bson:"price" json:"price"`
	Location    string        `bson:"location,omitempty" json:"location,omitempty"`
	Photos      []string      `bson:"photos" json:"photos"`

	Status     ListingStatus `bson:"status" json:"status"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
	ArchivedAt *time.Time    `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	ExpiresAt  time.Time     `bson:"expires_at" json:"expires_at"`

	// Snapshots taken when archiving, cleared on restore.
	PreviousStatus    *ListingStatus `bson:"previous_status,omitempty" json:"previous_status,omitempty"`
	PreviousExpiresAt *time.Time     `bson:"previous_expires_at,omitempty" json:"previous_expires_at,omitempty"`

	// OriginalCreatedAt survives archive/restore cycles for audit display.
	OriginalCreatedAt *time.Time `bson:"original_created_at,omitempty" json:"original_created_at,omitempty"`

	SoldAt  *time.Time `bson:"sold_at,omitempty" json:"sold_at,omitempty"`
	BuyerID string     `bson:"buyer_id,omitempty" json:"buyer_id,omitempty"`

	Version int `bson:"version" json:"-"`
}

func NewListing(userID, title, game string, condition CardCondition, price float64, accountTier tier.Tier, now time.Time) (*Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	now = now.UTC()
	return &Listing{
		UserID:    userID,
		Title:     title,
		Game:      game,
		Condition: condition,
		Price:     price,
		Photos:    []string{},
		Status:    ListingActive,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(tier.ListingLifetime(accountTier)),
		Version:   1,
	}, nil
}

// Archive moves an active listing into the archive. The pre-archive status
// and expiry are snapshotted, and the listing gets the fixed 7-day retention
// window regardless of tier.
func (l *Listing) Archive(now time.Time) error {
	if l.Status != ListingActive {
		return fmt.Errorf("%w: cannot archive listing in status %q", ErrInvalidTransition, l.Status)
	}

	now = now.UTC()
	prevStatus := l.Status
	prevExpires := l.ExpiresAt
	if l.OriginalCreatedAt == nil {
		created := l.CreatedAt
		l.OriginalCreatedAt = &created
	}

	l.Status = ListingArchived
	l.ArchivedAt = &now
	l.PreviousStatus = &prevStatus
	l.PreviousExpiresAt = &prevExpires
	l.ExpiresAt = now.Add(ArchiveRetention)
	l.UpdatedAt = now
	l.Version++
	return nil
}

// Restore brings an archived listing back to the active view. The listing is
// treated as newly created: CreatedAt resets to now and the expiry clock
// restarts from the owner's current tier.
func (l *Listing) Restore(now time.Time, accountTier tier.Tier) error {
	if l.Status != ListingArchived {
		return fmt.Errorf("%w: cannot restore listing in status %q", ErrInvalidTransition, l.Status)
	}

	now = now.UTC()
	l.Status = ListingActive
	l.ArchivedAt = nil
	l.PreviousStatus = nil
	l.PreviousExpiresAt = nil
	l.OriginalCreatedAt = nil
	l.CreatedAt = now
	l.ExpiresAt = now.Add(tier.ListingLifetime(accountTier))
	l.UpdatedAt = now
	l.Version++
	return nil
}

// MarkSold finalises a purchase. Terminal: no further automatic transition
// applies and the lifecycle fields are frozen.
func (l *Listing) MarkSold(now time.Time, buyerID string) error {
	if l.Status != ListingActive {
		return fmt.Errorf("%w: cannot sell listing in status %q", ErrInvalidTransition, l.Status)
	}
	if buyerID == "" {
		return fmt.Errorf("%w: buyer ID cannot be empty", ErrValidation)
	}

	now = now.UTC()
	l.Status = ListingSold
	l.SoldAt = &now
	l.BuyerID = buyerID
	l.UpdatedAt = now
	l.Version++
	return nil
}

// IsExpired reports whether the listing's current expiry has passed. Sold
// listings never expire.
func (l *Listing) IsExpired(now time.Time) bool {
	if l.Status == ListingSold {
		return false
	}
	return now.After(l.ExpiresAt)
}
