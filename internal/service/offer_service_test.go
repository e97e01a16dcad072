package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tcgbay/marketplace/internal/adapter/nats"
	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/domain/tier"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

type offerFixture struct {
	offers    *MockOfferRepository
	users     *MockUserRepository
	listings  *MockListingService
	orders    *MockOrderService
	publisher *MockPublisher
	mail      *MockEmailSender
	svc       *offerService
}

func newOfferFixture(t *testing.T) *offerFixture {
	t.Helper()
	f := &offerFixture{
		offers:    new(MockOfferRepository),
		users:     new(MockUserRepository),
		listings:  new(MockListingService),
		orders:    new(MockOrderService),
		publisher: new(MockPublisher),
		mail:      new(MockEmailSender),
	}
	f.svc = &offerService{
		offers:    f.offers,
		users:     f.users,
		listings:  f.listings,
		orders:    f.orders,
		publisher: f.publisher,
		mail:      f.mail,
		log:       logger.NoOp(),
		now:       func() time.Time { return testNow },
	}
	return f
}

func pendingOffer(t *testing.T, id string) *entity.Offer {
	t.Helper()
	o, err := entity.NewOffer("listing-1", "seller-1", "buyer-1", 40, "would you take 40?", testNow.Add(-time.Hour))
	require.NoError(t, err)
	o.ID = id
	return o
}

func TestOfferService_Make(t *testing.T) {
	f := newOfferFixture(t)
	l := activeListing(t, "listing-1", "seller-1", tier.Free)
	f.listings.On("Get", mock.Anything, "listing-1").Return(l, nil)
	f.offers.On("Create", mock.Anything, mock.AnythingOfType("*entity.Offer")).Return("offer-1", nil)
	f.publisher.On("Publish", mock.Anything, nats.SubjectOfferReceived, mock.Anything).Return(nil)
	f.users.On("GetByID", mock.Anything, "seller-1").
		Return(&entity.User{ID: "seller-1", Email: "seller@example.com"}, nil)
	f.mail.On("SendOfferReceived", "seller@example.com", l.Title, 40.0).Return(nil)

	offer, err := f.svc.Make(context.Background(), "listing-1", "buyer-1", 40, "would you take 40?")

	require.NoError(t, err)
	assert.Equal(t, entity.OfferPending, offer.Status)
	assert.Equal(t, "seller-1", offer.SellerID)
	assert.Equal(t, testNow.Add(entity.OfferLifetime), offer.ExpiresAt)
	f.mail.AssertExpectations(t)
}

func TestOfferService_Make_ListingNotActive(t *testing.T) {
	f := newOfferFixture(t)
	l := activeListing(t, "listing-1", "seller-1", tier.Free)
	require.NoError(t, l.Archive(testNow.Add(-time.Minute)))
	f.listings.On("Get", mock.Anything, "listing-1").Return(l, nil)

	_, err := f.svc.Make(context.Background(), "listing-1", "buyer-1", 40, "")

	assert.True(t, errors.Is(err, ErrListingNotActive))
	f.offers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOfferService_Accept_OpensOrderAndDeclinesRivals(t *testing.T) {
	f := newOfferFixture(t)
	offer := pendingOffer(t, "offer-1")
	rival := *pendingOffer(t, "offer-2")
	rival.Status = entity.OfferDeclined
	order := &entity.Order{ID: "order-1", ListingID: "listing-1", BuyerID: "buyer-1", Amount: 40}

	f.offers.On("GetByID", mock.Anything, "offer-1").Return(offer, nil)
	f.offers.On("UpdateStatus", mock.Anything, "offer-1", entity.OfferAccepted, mock.Anything).Return(nil)
	f.offers.On("DeclinePendingForListing", mock.Anything, "listing-1", "offer-1", testNow).
		Return([]entity.Offer{rival}, nil)
	f.orders.On("CreateFromOffer", mock.Anything, offer).Return(order, nil)
	f.publisher.On("Publish", mock.Anything, nats.SubjectOfferDeclined, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, nats.SubjectOfferAccepted, offer).Return(nil)

	got, err := f.svc.Accept(context.Background(), "offer-1", "seller-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)
	assert.Equal(t, entity.OfferAccepted, offer.Status)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, nats.SubjectOfferDeclined, mock.Anything)
}

func TestOfferService_Accept_Expired(t *testing.T) {
	f := newOfferFixture(t)
	offer := pendingOffer(t, "offer-1")
	offer.ExpiresAt = testNow.Add(-time.Minute)
	f.offers.On("GetByID", mock.Anything, "offer-1").Return(offer, nil)

	_, err := f.svc.Accept(context.Background(), "offer-1", "seller-1")

	assert.True(t, errors.Is(err, ErrOfferExpired))
	f.orders.AssertNotCalled(t, "CreateFromOffer", mock.Anything, mock.Anything)
}

func TestOfferService_Accept_OnlySeller(t *testing.T) {
	f := newOfferFixture(t)
	f.offers.On("GetByID", mock.Anything, "offer-1").Return(pendingOffer(t, "offer-1"), nil)

	_, err := f.svc.Accept(context.Background(), "offer-1", "buyer-1")

	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestOfferService_Decline_AlreadyClosed(t *testing.T) {
	f := newOfferFixture(t)
	offer := pendingOffer(t, "offer-1")
	offer.Status = entity.OfferWithdrawn
	f.offers.On("GetByID", mock.Anything, "offer-1").Return(offer, nil)

	_, err := f.svc.Decline(context.Background(), "offer-1", "seller-1")

	assert.True(t, errors.Is(err, ErrOfferClosed))
	f.offers.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOfferService_Withdraw(t *testing.T) {
	f := newOfferFixture(t)
	offer := pendingOffer(t, "offer-1")
	f.offers.On("GetByID", mock.Anything, "offer-1").Return(offer, nil)
	f.offers.On("UpdateStatus", mock.Anything, "offer-1", entity.OfferWithdrawn, mock.Anything).Return(nil)

	got, err := f.svc.Withdraw(context.Background(), "offer-1", "buyer-1")

	require.NoError(t, err)
	assert.Equal(t, entity.OfferWithdrawn, got.Status)
}

func TestOfferService_Incoming(t *testing.T) {
	f := newOfferFixture(t)
	f.offers.On("Find", mock.Anything, repository.OfferFilter{SellerID: "seller-1"}).
		Return([]entity.Offer{*pendingOffer(t, "offer-1")}, nil)

	offers, err := f.svc.Incoming(context.Background(), "seller-1")

	require.NoError(t, err)
	assert.Len(t, offers, 1)
}
