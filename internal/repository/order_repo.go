package repository

import (
	"context"

	"github.com/tcgbay/marketplace/internal/domain/entity"
)

type UpdateOrderStatusParams struct {
	OrderID        string
	Status         entity.OrderStatus
	PaymentDetails *entity.PaymentDetails
	Version        int
}

type OrderFilter struct {
	BuyerID  string
	SellerID string
	Status   entity.OrderStatus
	Page     int
	PageSize int
}

type OrderPage struct {
	Orders     []entity.Order
	TotalCount int64
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus writes the status (and payment details when given) guarded
	// by the expected version; ErrOptimisticLock on a version mismatch.
	UpdateStatus(ctx context.Context, params UpdateOrderStatusParams) error
	Find(ctx context.Context, filter OrderFilter) (*OrderPage, error)
}
