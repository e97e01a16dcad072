package entity

import (
	"errors"
	"fmt"
	"time"
)

type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferWithdrawn OfferStatus = "withdrawn"
	OfferExpired   OfferStatus = "expired"
)

// OfferLifetime is how long a pending offer stays open before it expires.
const OfferLifetime = 48 * time.Hour

var ErrOfferNotPending = errors.New("offer is no longer pending")

// Offer is a buyer's price proposal on an active listing. Only pending
// offers can change state; everything else is terminal.
type Offer struct {
	ID        string      `bson:"_id,omitempty" json:"id"`
	ListingID string      `bson:"listing_id" json:"listing_id"`
	SellerID  string      `bson:"seller_id" json:"seller_id"`
	BuyerID   string      `bson:"buyer_id" json:"buyer_id"`
	Amount    float64     `bson:"amount" json:"amount"`
	Message   string      `bson:"message,omitempty" json:"message,omitempty"`
	Status    OfferStatus `bson:"status" json:"status"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
	ExpiresAt time.Time   `bson:"expires_at" json:"expires_at"`
}

func NewOffer(listingID, sellerID, buyerID string, amount float64, message string, now time.Time) (*Offer, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing ID cannot be empty", ErrValidation)
	}
	if buyerID == "" {
		return nil, fmt.Errorf("%w: buyer ID cannot be empty", ErrValidation)
	}
	if buyerID == sellerID {
		return nil, fmt.Errorf("%w: cannot make an offer on your own listing", ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: offer amount must be positive", ErrValidation)
	}

	now = now.UTC()
	return &Offer{
		ListingID: listingID,
		SellerID:  sellerID,
		BuyerID:   buyerID,
		Amount:    amount,
		Message:   message,
		Status:    OfferPending,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(OfferLifetime),
	}, nil
}

func (o *Offer) transition(to OfferStatus, now time.Time) error {
	if o.Status != OfferPending {
		return fmt.Errorf("%w: status is %q", ErrOfferNotPending, o.Status)
	}
	o.Status = to
	o.UpdatedAt = now.UTC()
	return nil
}

func (o *Offer) Accept(now time.Time) error   { return o.transition(OfferAccepted, now) }
func (o *Offer) Decline(now time.Time) error  { return o.transition(OfferDeclined, now) }
func (o *Offer) Withdraw(now time.Time) error { return o.transition(OfferWithdrawn, now) }
func (o *Offer) Expire(now time.Time) error   { return o.transition(OfferExpired, now) }

func (o *Offer) IsExpired(now time.Time) bool {
	return o.Status == OfferPending && now.After(o.ExpiresAt)
}
