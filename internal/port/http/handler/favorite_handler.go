package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
	"github.com/tcgbay/marketplace/internal/repository"
	"github.com/tcgbay/marketplace/internal/service"
)

type FavoriteHandler struct {
	favorites repository.FavoriteRepository
	listings  service.ListingService
	log       logger.Logger
}

func NewFavoriteHandler(favorites repository.FavoriteRepository, listings service.ListingService, log logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, listings: listings, log: log}
}

type addFavoriteRequest struct {
	ListingID string `json:"listing_id"`
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
		badRequest(h.log, w, "listing_id is required")
		return
	}

	// Favoriting a listing that does not exist is a 404, not a silent insert.
	if _, err := h.listings.Get(r.Context(), req.ListingID); err != nil {
		respondError(h.log, w, err)
		return
	}

	favorite := &entity.Favorite{
		UserID:    middleware.UserID(r.Context()),
		ListingID: req.ListingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.favorites.Add(r.Context(), favorite); err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, favorite)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Remove(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listingID")); err != nil {
		respondError(h.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favorites.ListByUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, favorites)
}
