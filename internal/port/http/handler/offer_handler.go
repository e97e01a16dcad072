package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
	"github.com/tcgbay/marketplace/internal/service"
)

type OfferHandler struct {
	offers service.OfferService
	log    logger.Logger
}

func NewOfferHandler(offers service.OfferService, log logger.Logger) *OfferHandler {
	return &OfferHandler{offers: offers, log: log}
}

type makeOfferRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

func (h *OfferHandler) Make(w http.ResponseWriter, r *http.Request) {
	var req makeOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(h.log, w, "invalid request body")
		return
	}

	offer, err := h.offers.Make(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req.Amount, req.Message)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, offer)
}

func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
	order, err := h.offers.Accept(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, order)
}

func (h *OfferHandler) Decline(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offers.Decline(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, offer)
}

func (h *OfferHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offers.Withdraw(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, offer)
}

// List serves both directions: ?direction=incoming (offers on my listings,
// the default) or ?direction=outgoing (offers I made).
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var err error
	var offers interface{}
	if r.URL.Query().Get("direction") == "outgoing" {
		offers, err = h.offers.Outgoing(r.Context(), userID)
	} else {
		offers, err = h.offers.Incoming(r.Context(), userID)
	}
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, offers)
}
