package service

import (
	"context"
	"errors"
	"time"

	"github.com/tcgbay/marketplace/internal/adapter/email"
	"github.com/tcgbay/marketplace/internal/adapter/nats"
	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

var (
	ErrOfferClosed  = errors.New("offer is no longer open")
	ErrOfferExpired = errors.New("offer has expired")
)

type OfferService interface {
	Make(ctx context.Context, listingID, buyerID string, amount float64, message string) (*entity.Offer, error)
	Accept(ctx context.Context, offerID, sellerID string) (*entity.Order, error)
	Decline(ctx context.Context, offerID, sellerID string) (*entity.Offer, error)
	Withdraw(ctx context.Context, offerID, buyerID string) (*entity.Offer, error)
	Incoming(ctx context.Context, sellerID string) ([]entity.Offer, error)
	Outgoing(ctx context.Context, buyerID string) ([]entity.Offer, error)
}

type offerService struct {
	offers    repository.OfferRepository
	users     repository.UserRepository
	listings  ListingService
	orders    OrderService
	publisher nats.MessagePublisher
	mail      email.Sender
	log       logger.Logger
	now       nowFunc
}

func NewOfferService(
	offers repository.OfferRepository,
	users repository.UserRepository,
	listings ListingService,
	orders OrderService,
	publisher nats.MessagePublisher,
	mail email.Sender,
	log logger.Logger,
) OfferService {
	return &offerService{
		offers:    offers,
		users:     users,
		listings:  listings,
		orders:    orders,
		publisher: publisher,
		mail:      mail,
		log:       log,
		now:       time.Now,
	}
}

func (s *offerService) Make(ctx context.Context, listingID, buyerID string, amount float64, message string) (*entity.Offer, error) {
	listing, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != entity.ListingActive || listing.IsExpired(s.now()) {
		return nil, ErrListingNotActive
	}

	offer, err := entity.NewOffer(listingID, listing.UserID, buyerID, amount, message, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, nats.SubjectOfferReceived, offer); err != nil {
		s.log.Warnf("failed to publish offer event for %s: %v", offer.ID, err)
	}
	if seller, err := s.users.GetByID(ctx, listing.UserID); err == nil {
		if err := s.mail.SendOfferReceived(seller.Email, listing.Title, amount); err != nil {
			s.log.Warnf("failed to email seller %s about offer %s: %v", listing.UserID, offer.ID, err)
		}
	}

	s.log.Infof("offer %s (%.2f) made on listing %s by user %s", offer.ID, amount, listingID, buyerID)
	return offer, nil
}

// Accept closes the offer, declines all other pending offers on the listing,
// and opens an order at the offered amount.
func (s *offerService) Accept(ctx context.Context, offerID, sellerID string) (*entity.Order, error) {
	offer, err := s.getFor(ctx, offerID, sellerID, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if offer.IsExpired(now) {
		return nil, ErrOfferExpired
	}
	if err := offer.Accept(now); err != nil {
		return nil, ErrOfferClosed
	}
	if err := s.offers.UpdateStatus(ctx, offer.ID, offer.Status, offer.UpdatedAt); err != nil {
		return nil, err
	}

	declined, err := s.offers.DeclinePendingForListing(ctx, offer.ListingID, offer.ID, now)
	if err != nil {
		s.log.Warnf("failed to decline competing offers on listing %s: %v", offer.ListingID, err)
	}
	for i := range declined {
		if err := s.publisher.Publish(ctx, nats.SubjectOfferDeclined, &declined[i]); err != nil {
			s.log.Warnf("failed to publish decline event for offer %s: %v", declined[i].ID, err)
		}
	}

	order, err := s.orders.CreateFromOffer(ctx, offer)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, nats.SubjectOfferAccepted, offer); err != nil {
		s.log.Warnf("failed to publish accept event for offer %s: %v", offer.ID, err)
	}
	s.log.Infof("offer %s accepted by seller %s, order %s opened", offer.ID, sellerID, order.ID)
	return order, nil
}

func (s *offerService) Decline(ctx context.Context, offerID, sellerID string) (*entity.Offer, error) {
	offer, err := s.getFor(ctx, offerID, sellerID, true)
	if err != nil {
		return nil, err
	}
	if err := offer.Decline(s.now()); err != nil {
		return nil, ErrOfferClosed
	}
	if err := s.offers.UpdateStatus(ctx, offer.ID, offer.Status, offer.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, nats.SubjectOfferDeclined, offer); err != nil {
		s.log.Warnf("failed to publish decline event for offer %s: %v", offer.ID, err)
	}
	return offer, nil
}

func (s *offerService) Withdraw(ctx context.Context, offerID, buyerID string) (*entity.Offer, error) {
	offer, err := s.getFor(ctx, offerID, buyerID, false)
	if err != nil {
		return nil, err
	}
	if err := offer.Withdraw(s.now()); err != nil {
		return nil, ErrOfferClosed
	}
	if err := s.offers.UpdateStatus(ctx, offer.ID, offer.Status, offer.UpdatedAt); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *offerService) Incoming(ctx context.Context, sellerID string) ([]entity.Offer, error) {
	return s.offers.Find(ctx, repository.OfferFilter{SellerID: sellerID})
}

func (s *offerService) Outgoing(ctx context.Context, buyerID string) ([]entity.Offer, error) {
	return s.offers.Find(ctx, repository.OfferFilter{BuyerID: buyerID})
}

func (s *offerService) getFor(ctx context.Context, offerID, userID string, asSeller bool) (*entity.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	owner := offer.BuyerID
	if asSeller {
		owner = offer.SellerID
	}
	if owner != userID {
		s.log.Warnf("user %s attempted to act on offer %s they do not own", userID, offerID)
		return nil, ErrForbidden
	}
	return offer, nil
}
