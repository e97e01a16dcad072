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

var ErrOrderNotCancellable = errors.New("order can no longer be cancelled")

type OrderService interface {
	// BuyNow opens an order at list price for an active listing.
	BuyNow(ctx context.Context, listingID, buyerID string) (*entity.Order, error)
	CreateFromOffer(ctx context.Context, offer *entity.Offer) (*entity.Order, error)
	// HandlePaymentSucceeded applies a verified processor callback: the order
	// becomes paid and the listing is marked sold.
	HandlePaymentSucceeded(ctx context.Context, orderID, transactionID string) (*entity.Order, error)
	Cancel(ctx context.Context, orderID, buyerID string) (*entity.Order, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int) (*repository.OrderPage, error)
}

type orderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	listings  ListingService
	publisher nats.MessagePublisher
	mail      email.Sender
	log       logger.Logger
	now       nowFunc
}

func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	listings ListingService,
	publisher nats.MessagePublisher,
	mail email.Sender,
	log logger.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		users:     users,
		listings:  listings,
		publisher: publisher,
		mail:      mail,
		log:       log,
		now:       time.Now,
	}
}

func (s *orderService) BuyNow(ctx context.Context, listingID, buyerID string) (*entity.Order, error) {
	listing, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != entity.ListingActive || listing.IsExpired(s.now()) {
		return nil, ErrListingNotActive
	}

	order, err := entity.NewOrder(listing.ID, listing.Title, listing.UserID, buyerID, "", listing.Price, s.now())
	if err != nil {
		return nil, err
	}
	return s.open(ctx, order)
}

func (s *orderService) CreateFromOffer(ctx context.Context, offer *entity.Offer) (*entity.Order, error) {
	listing, err := s.listings.Get(ctx, offer.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != entity.ListingActive {
		return nil, ErrListingNotActive
	}

	order, err := entity.NewOrder(listing.ID, listing.Title, offer.SellerID, offer.BuyerID, offer.ID, offer.Amount, s.now())
	if err != nil {
		return nil, err
	}
	return s.open(ctx, order)
}

func (s *orderService) open(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, nats.SubjectOrderCreated, order); err != nil {
		s.log.Warnf("failed to publish order created event for %s: %v", order.ID, err)
	}
	s.log.Infof("order %s opened for listing %s (buyer %s, %.2f)",
		order.ID, order.ListingID, order.BuyerID, order.Amount)
	return order, nil
}

func (s *orderService) HandlePaymentSucceeded(ctx context.Context, orderID, transactionID string) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Replayed webhooks for an already-paid order are acknowledged as-is.
	if order.Status != entity.OrderPendingPayment {
		s.log.Infof("payment callback for order %s ignored, status is %s", orderID, order.Status)
		return order, nil
	}

	version := order.Version
	if err := order.UpdateStatus(entity.OrderPaid, s.now()); err != nil {
		return nil, err
	}
	order.AddPaymentDetails(entity.PaymentDetails{
		TransactionID: transactionID,
		PaymentStatus: "succeeded",
	}, s.now())

	err = s.orders.UpdateStatus(ctx, repository.UpdateOrderStatusParams{
		OrderID:        order.ID,
		Status:         order.Status,
		PaymentDetails: &order.PaymentDetails,
		Version:        version,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.listings.MarkSold(ctx, order.ListingID, order.BuyerID); err != nil {
		// The order is paid either way; the listing may have raced into a
		// terminal state. Log and continue.
		s.log.Errorf("failed to mark listing %s sold for paid order %s: %v", order.ListingID, order.ID, err)
	}

	if err := s.publisher.Publish(ctx, nats.SubjectOrderPaid, order); err != nil {
		s.log.Warnf("failed to publish order paid event for %s: %v", order.ID, err)
	}
	if seller, err := s.users.GetByID(ctx, order.SellerID); err == nil {
		if err := s.mail.SendListingSold(seller.Email, order.ListingTitle, order.Amount); err != nil {
			s.log.Warnf("failed to email seller %s about sale %s: %v", order.SellerID, order.ID, err)
		}
	}

	s.log.Infof("order %s paid (txn %s), listing %s sold", order.ID, transactionID, order.ListingID)
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID, buyerID string) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		s.log.Warnf("user %s attempted to cancel order %s they do not own", buyerID, orderID)
		return nil, ErrForbidden
	}
	if !order.CanBeCancelled() {
		return nil, ErrOrderNotCancellable
	}

	version := order.Version
	if err := order.UpdateStatus(entity.OrderCancelled, s.now()); err != nil {
		return nil, err
	}
	err = s.orders.UpdateStatus(ctx, repository.UpdateOrderStatusParams{
		OrderID: order.ID,
		Status:  order.Status,
		Version: version,
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, nats.SubjectOrderCancelled, order); err != nil {
		s.log.Warnf("failed to publish order cancelled event for %s: %v", order.ID, err)
	}
	return order, nil
}

func (s *orderService) ListForUser(ctx context.Context, userID string, page, pageSize int) (*repository.OrderPage, error) {
	return s.orders.Find(ctx, repository.OrderFilter{BuyerID: userID, Page: page, PageSize: pageSize})
}
