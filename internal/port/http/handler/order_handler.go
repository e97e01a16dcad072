package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
	"github.com/tcgbay/marketplace/internal/service"
)

type OrderHandler struct {
	orders        service.OrderService
	webhookSecret string
	log           logger.Logger
}

func NewOrderHandler(orders service.OrderService, webhookSecret string, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, webhookSecret: webhookSecret, log: log}
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	orders, err := h.orders.ListForUser(r.Context(), middleware.UserID(r.Context()), page, pageSize)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, orders)
}

type paymentWebhookEvent struct {
	Event         string `json:"event"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
}

// PaymentWebhook receives the processor's callback. The raw body is
// authenticated with an HMAC-SHA256 signature in X-Payment-Signature before
// anything is parsed.
func (h *OrderHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		badRequest(h.log, w, "unreadable request body")
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Payment-Signature")) {
		h.log.Warnf("payment webhook rejected: bad signature from %s", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event paymentWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		badRequest(h.log, w, "invalid webhook payload")
		return
	}

	switch event.Event {
	case "payment.succeeded":
		order, err := h.orders.HandlePaymentSucceeded(r.Context(), event.OrderID, event.TransactionID)
		if err != nil {
			respondError(h.log, w, err)
			return
		}
		respondJSON(h.log, w, http.StatusOK, order)
	default:
		// Unknown events are acknowledged so the processor stops retrying.
		h.log.Infof("payment webhook event %q ignored", event.Event)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *OrderHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
