package entity

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderPaid           OrderStatus = "paid"
	OrderShipped        OrderStatus = "shipped"
	OrderCompleted      OrderStatus = "completed"
	OrderCancelled      OrderStatus = "cancelled"
)

type PaymentDetails struct {
	TransactionID string `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	PaymentStatus string `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
}

// Order settles a listing purchase, either a direct buy at list price or an
// accepted offer.
type Order struct {
	ID             string         `bson:"_id,omitempty" json:"id"`
	ListingID      string         `bson:"listing_id" json:"listing_id"`
	ListingTitle   string         `bson:"listing_title" json:"listing_title"`
	SellerID       string         `bson:"seller_id" json:"seller_id"`
	BuyerID        string         `bson:"buyer_id" json:"buyer_id"`
	OfferID        string         `bson:"offer_id,omitempty" json:"offer_id,omitempty"`
	Amount         float64        `bson:"amount" json:"amount"`
	Status         OrderStatus    `bson:"status" json:"status"`
	PaymentDetails PaymentDetails `bson:"payment_details,omitempty" json:"payment_details,omitempty"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updated_at"`
	Version        int            `bson:"version" json:"-"`
}

func NewOrder(listingID, listingTitle, sellerID, buyerID, offerID string, amount float64, now time.Time) (*Order, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing ID cannot be empty", ErrValidation)
	}
	if sellerID == "" || buyerID == "" {
		return nil, fmt.Errorf("%w: seller and buyer IDs cannot be empty", ErrValidation)
	}
	if sellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot buy your own listing", ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: order amount must be positive", ErrValidation)
	}

	now = now.UTC()
	return &Order{
		ListingID:    listingID,
		ListingTitle: listingTitle,
		SellerID:     sellerID,
		BuyerID:      buyerID,
		OfferID:      offerID,
		Amount:       amount,
		Status:       OrderPendingPayment,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}, nil
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPendingPayment: {OrderPaid, OrderCancelled},
	OrderPaid:           {OrderShipped, OrderCancelled},
	OrderShipped:        {OrderCompleted},
	OrderCompleted:      {},
	OrderCancelled:      {},
}

func (o *Order) UpdateStatus(newStatus OrderStatus, now time.Time) error {
	if o.Status == newStatus {
		return nil
	}
	allowed, ok := orderTransitions[o.Status]
	if !ok {
		return fmt.Errorf("cannot transition from unknown order status %q", o.Status)
	}
	for _, s := range allowed {
		if s == newStatus {
			o.Status = newStatus
			o.UpdatedAt = now.UTC()
			o.Version++
			return nil
		}
	}
	return fmt.Errorf("%w: cannot move order from %q to %q", ErrInvalidTransition, o.Status, newStatus)
}

func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPendingPayment
}

func (o *Order) AddPaymentDetails(details PaymentDetails, now time.Time) {
	o.PaymentDetails = details
	o.UpdatedAt = now.UTC()
}
