package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/domain/tier"
	"github.com/tcgbay/marketplace/internal/repository"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Patch(ctx context.Context, id string, patch repository.ListingPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) Find(ctx context.Context, filter repository.ListingFilter) (*repository.ListingPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListingPage), args.Error(1)
}

func (m *MockListingRepository) FindExpired(ctx context.Context, statuses []entity.ListingStatus, now time.Time) ([]entity.Listing, error) {
	args := m.Called(ctx, statuses, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *entity.Offer) (string, error) {
	args := m.Called(ctx, offer)
	return args.String(0), args.Error(1)
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Offer), args.Error(1)
}

func (m *MockOfferRepository) UpdateStatus(ctx context.Context, id string, status entity.OfferStatus, updatedAt time.Time) error {
	args := m.Called(ctx, id, status, updatedAt)
	return args.Error(0)
}

func (m *MockOfferRepository) Find(ctx context.Context, filter repository.OfferFilter) ([]entity.Offer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Offer), args.Error(1)
}

func (m *MockOfferRepository) DeclinePendingForListing(ctx context.Context, listingID, exceptOfferID string, now time.Time) ([]entity.Offer, error) {
	args := m.Called(ctx, listingID, exceptOfferID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindExpired(ctx context.Context, now time.Time) ([]entity.Offer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Offer), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, params repository.UpdateOrderStatusParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter repository.OrderFilter) (*repository.OrderPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OrderPage), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) Get(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingCache) Set(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTierSource struct {
	mock.Mock
}

func (m *MockTierSource) CurrentTier(ctx context.Context, userID string) (tier.Tier, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(tier.Tier), args.Error(1)
}

type MockTierCache struct {
	mock.Mock
}

func (m *MockTierCache) Get(ctx context.Context, userID string) (tier.Tier, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(tier.Tier), args.Error(1)
}

func (m *MockTierCache) Set(ctx context.Context, userID string, t tier.Tier) error {
	args := m.Called(ctx, userID, t)
	return args.Error(0)
}

type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, fileName, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockPhotoStore) Remove(ctx context.Context, photoURL string) error {
	args := m.Called(ctx, photoURL)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendOfferReceived(toEmail, listingTitle string, amount float64) error {
	args := m.Called(toEmail, listingTitle, amount)
	return args.Error(0)
}

func (m *MockEmailSender) SendListingSold(toEmail, listingTitle string, amount float64) error {
	args := m.Called(toEmail, listingTitle, amount)
	return args.Error(0)
}

func (m *MockEmailSender) SendArchiveExpiryWarning(toEmail, listingTitle string, daysLeft int) error {
	args := m.Called(toEmail, listingTitle, daysLeft)
	return args.Error(0)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, userID string, params CreateListingParams) (*entity.Listing, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) Get(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) Search(ctx context.Context, filter repository.ListingFilter) (*repository.ListingPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListingPage), args.Error(1)
}

func (m *MockListingService) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DashboardView), args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, id, userID string, params UpdateListingParams) (*entity.Listing, error) {
	args := m.Called(ctx, id, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) Archive(ctx context.Context, id, userID string) (*entity.Listing, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) Restore(ctx context.Context, id, userID string) (*entity.Listing, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) PermanentlyDelete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockListingService) MarkSold(ctx context.Context, id, buyerID string) (*entity.Listing, error) {
	args := m.Called(ctx, id, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) AddPhoto(ctx context.Context, id, userID, fileName string, data []byte, contentType string) (*entity.Listing, error) {
	args := m.Called(ctx, id, userID, fileName, data, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) BuyNow(ctx context.Context, listingID, buyerID string) (*entity.Order, error) {
	args := m.Called(ctx, listingID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) CreateFromOffer(ctx context.Context, offer *entity.Offer) (*entity.Order, error) {
	args := m.Called(ctx, offer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) HandlePaymentSucceeded(ctx context.Context, orderID, transactionID string) (*entity.Order, error) {
	args := m.Called(ctx, orderID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID, buyerID string) (*entity.Order, error) {
	args := m.Called(ctx, orderID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID string, page, pageSize int) (*repository.OrderPage, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OrderPage), args.Error(1)
}
