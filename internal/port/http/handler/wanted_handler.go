package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
	"github.com/tcgbay/marketplace/internal/repository"
	"github.com/tcgbay/marketplace/internal/service"
)

type WantedHandler struct {
	wanted service.WantedService
	log    logger.Logger
}

func NewWantedHandler(wanted service.WantedService, log logger.Logger) *WantedHandler {
	return &WantedHandler{wanted: wanted, log: log}
}

type createWantedRequest struct {
	Title    string  `json:"title"`
	Game     string  `json:"game"`
	MaxPrice float64 `json:"max_price"`
	Notes    string  `json:"notes"`
}

func (h *WantedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWantedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(h.log, w, "invalid request body")
		return
	}

	post, err := h.wanted.Create(r.Context(), middleware.UserID(r.Context()), req.Title, req.Game, req.MaxPrice, req.Notes)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, post)
}

func (h *WantedHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, err := h.wanted.Browse(r.Context(), repository.WantedFilter{
		Game:   q.Get("game"),
		Query:  q.Get("q"),
		Status: entity.WantedStatus(q.Get("status")),
	})
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, posts)
}

type closeWantedRequest struct {
	Fulfilled bool `json:"fulfilled"`
}

func (h *WantedHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req closeWantedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(h.log, w, "invalid request body")
		return
	}

	post, err := h.wanted.Close(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req.Fulfilled)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, post)
}
