package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/domain/tier"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

type sweeperFixture struct {
	listings  *MockListingRepository
	offers    *MockOfferRepository
	users     *MockUserRepository
	cache     *MockListingCache
	publisher *MockPublisher
	mail      *MockEmailSender
	sweeper   *Sweeper
}

func newSweeperFixture(t *testing.T, now time.Time) *sweeperFixture {
	t.Helper()
	f := &sweeperFixture{
		listings:  new(MockListingRepository),
		offers:    new(MockOfferRepository),
		users:     new(MockUserRepository),
		cache:     new(MockListingCache),
		publisher: new(MockPublisher),
		mail:      new(MockEmailSender),
	}
	f.sweeper = &Sweeper{
		listings:  f.listings,
		offers:    f.offers,
		users:     f.users,
		cache:     f.cache,
		publisher: f.publisher,
		mail:      f.mail,
		log:       logger.NoOp(),
		now:       func() time.Time { return now },
	}
	return f
}

func (f *sweeperFixture) expectNoOffersAndNoWarnings() {
	f.offers.On("FindExpired", mock.Anything, mock.Anything).Return([]entity.Offer{}, nil)
	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingArchived}, mock.Anything).
		Return([]entity.Listing{}, nil)
}

func TestSweeper_PurgesExpiredArchives(t *testing.T) {
	now := testNow.Add(8 * 24 * time.Hour)
	f := newSweeperFixture(t, now)

	l := *activeListing(t, "old-archive", "user-1", tier.Free)
	require.NoError(t, l.Archive(testNow))

	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{l}, nil)
	f.listings.On("Delete", mock.Anything, "old-archive").Return(nil)
	f.cache.On("Invalidate", mock.Anything, "old-archive").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.expectNoOffersAndNoWarnings()

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.ListingsDeleted)
	assert.Equal(t, 0, report.ListingsArchived)
}

func TestSweeper_AutoArchivesExpiredActives(t *testing.T) {
	now := testNow.Add(49 * time.Hour)
	f := newSweeperFixture(t, now)

	l := *activeListing(t, "stale-active", "user-1", tier.Free)

	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{l}, nil)
	f.listings.On("Patch", mock.Anything, "stale-active", mock.MatchedBy(func(p repository.ListingPatch) bool {
		return p.Set["status"] == entity.ListingArchived
	})).Return(nil)
	f.cache.On("Invalidate", mock.Anything, "stale-active").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.expectNoOffersAndNoWarnings()

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.ListingsDeleted)
	assert.Equal(t, 1, report.ListingsArchived)
	f.listings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSweeper_SecondPassIsNoOp(t *testing.T) {
	now := testNow.Add(8 * 24 * time.Hour)
	f := newSweeperFixture(t, now)

	// First pass already removed everything; the repository now returns no
	// expired listings and no stale offers.
	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{}, nil)
	f.expectNoOffersAndNoWarnings()

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &SweepReport{}, report)
	f.listings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.listings.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweeper_PurgeTreatsMissingListingAsDone(t *testing.T) {
	now := testNow.Add(8 * 24 * time.Hour)
	f := newSweeperFixture(t, now)

	l := *activeListing(t, "gone", "user-1", tier.Free)
	require.NoError(t, l.Archive(testNow))

	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{l}, nil)
	// Owner deleted it between the query and the purge.
	f.listings.On("Delete", mock.Anything, "gone").Return(repository.ErrNotFound)
	f.cache.On("Invalidate", mock.Anything, "gone").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.expectNoOffersAndNoWarnings()

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.ListingsDeleted)
}

func TestSweeper_AutoArchiveSkipsConcurrentlyChangedListing(t *testing.T) {
	now := testNow.Add(49 * time.Hour)
	f := newSweeperFixture(t, now)

	l := *activeListing(t, "racy", "user-1", tier.Free)

	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{l}, nil)
	f.listings.On("Patch", mock.Anything, "racy", mock.Anything).Return(repository.ErrOptimisticLock)
	f.expectNoOffersAndNoWarnings()

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.ListingsArchived)
}

func TestSweeper_ExpiresStalePendingOffers(t *testing.T) {
	now := testNow.Add(72 * time.Hour)
	f := newSweeperFixture(t, now)

	offer := entity.Offer{ID: "offer-1", ListingID: "listing-1", BuyerID: "buyer-1", Status: entity.OfferPending}

	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{}, nil)
	f.offers.On("FindExpired", mock.Anything, now).Return([]entity.Offer{offer}, nil)
	f.offers.On("UpdateStatus", mock.Anything, "offer-1", entity.OfferExpired, now).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingArchived}, mock.Anything).
		Return([]entity.Listing{}, nil)

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.OffersExpired)
}

func TestSweeper_WarnsOwnersBeforeArchivePurge(t *testing.T) {
	now := testNow
	f := newSweeperFixture(t, now)

	closing := *activeListing(t, "closing", "user-1", tier.Free)
	require.NoError(t, closing.Archive(now.Add(-7*24*time.Hour+12*time.Hour)))

	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now).
		Return([]entity.Listing{}, nil)
	f.offers.On("FindExpired", mock.Anything, now).Return([]entity.Offer{}, nil)
	f.listings.On("FindExpired", mock.Anything, []entity.ListingStatus{entity.ListingArchived}, now.Add(archiveWarningWindow)).
		Return([]entity.Listing{closing}, nil)
	f.users.On("GetByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1", Email: "owner@example.com"}, nil)
	f.mail.On("SendArchiveExpiryWarning", "owner@example.com", closing.Title, 1).Return(nil)

	report, err := f.sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.WarningsSent)
	f.mail.AssertExpectations(t)
}
