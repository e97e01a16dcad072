package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

const webhookSecret = "hook-secret"

// stubOrderService lets webhook tests observe exactly what the handler calls.
type stubOrderService struct {
	paymentSucceeded func(orderID, transactionID string) (*entity.Order, error)
}

func (s *stubOrderService) BuyNow(context.Context, string, string) (*entity.Order, error) {
	panic("not used")
}

func (s *stubOrderService) CreateFromOffer(context.Context, *entity.Offer) (*entity.Order, error) {
	panic("not used")
}

func (s *stubOrderService) HandlePaymentSucceeded(_ context.Context, orderID, transactionID string) (*entity.Order, error) {
	return s.paymentSucceeded(orderID, transactionID)
}

func (s *stubOrderService) Cancel(context.Context, string, string) (*entity.Order, error) {
	panic("not used")
}

func (s *stubOrderService) ListForUser(context.Context, string, int, int) (*repository.OrderPage, error) {
	panic("not used")
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(h *OrderHandler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Payment-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.PaymentWebhook(rec, req)
	return rec
}

func TestPaymentWebhook_ValidSignature(t *testing.T) {
	var gotOrderID, gotTxnID string
	stub := &stubOrderService{paymentSucceeded: func(orderID, transactionID string) (*entity.Order, error) {
		gotOrderID, gotTxnID = orderID, transactionID
		return &entity.Order{ID: orderID, Status: entity.OrderPaid}, nil
	}}
	h := NewOrderHandler(stub, webhookSecret, logger.NoOp())

	body := []byte(`{"event":"payment.succeeded","order_id":"order-1","transaction_id":"txn-9"}`)
	rec := postWebhook(h, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order-1", gotOrderID)
	assert.Equal(t, "txn-9", gotTxnID)
}

func TestPaymentWebhook_BadSignature(t *testing.T) {
	called := false
	stub := &stubOrderService{paymentSucceeded: func(string, string) (*entity.Order, error) {
		called = true
		return nil, nil
	}}
	h := NewOrderHandler(stub, webhookSecret, logger.NoOp())

	body := []byte(`{"event":"payment.succeeded","order_id":"order-1"}`)
	rec := postWebhook(h, body, "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "an unsigned webhook must never reach the order service")
}

func TestPaymentWebhook_MissingSignature(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{}, webhookSecret, logger.NoOp())

	body := []byte(`{"event":"payment.succeeded"}`)
	rec := postWebhook(h, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentWebhook_UnknownEventAcknowledged(t *testing.T) {
	called := false
	stub := &stubOrderService{paymentSucceeded: func(string, string) (*entity.Order, error) {
		called = true
		return nil, nil
	}}
	h := NewOrderHandler(stub, webhookSecret, logger.NoOp())

	body := []byte(`{"event":"payment.refunded","order_id":"order-1"}`)
	rec := postWebhook(h, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
}
