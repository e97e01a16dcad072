package repository

import (
	"context"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
)

type OfferFilter struct {
	ListingID string
	SellerID  string
	BuyerID   string
	Status    entity.OfferStatus
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	UpdateStatus(ctx context.Context, id string, status entity.OfferStatus, updatedAt time.Time) error
	Find(ctx context.Context, filter OfferFilter) ([]entity.Offer, error)
	// DeclinePendingForListing declines every pending offer on the listing
	// except the one being accepted. Returns the declined offers.
	DeclinePendingForListing(ctx context.Context, listingID, exceptOfferID string, now time.Time) ([]entity.Offer, error)
	// FindExpired returns pending offers past their expiry.
	FindExpired(ctx context.Context, now time.Time) ([]entity.Offer, error)
}
