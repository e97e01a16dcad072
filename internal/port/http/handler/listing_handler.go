package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tcgbay/marketplace/internal/adapter/redis"
	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
	"github.com/tcgbay/marketplace/internal/repository"
	"github.com/tcgbay/marketplace/internal/service"
)

// maxPhotoSize caps a single photo upload at 10 MiB.
const maxPhotoSize = 10 << 20

// Trending aggregates and serves popular search queries.
type Trending interface {
	Record(ctx context.Context, query string) error
	Top(ctx context.Context, n int64) ([]redis.TrendingEntry, error)
}

type ListingHandler struct {
	listings service.ListingService
	orders   service.OrderService
	trending Trending
	log      logger.Logger
}

func NewListingHandler(listings service.ListingService, orders service.OrderService, trending Trending, log logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, orders: orders, trending: trending, log: log}
}

type createListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Game        string  `json:"game"`
	Condition   string  `json:"condition"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(h.log, w, "invalid request body")
		return
	}

	listing, err := h.listings.Create(r.Context(), middleware.UserID(r.Context()), service.CreateListingParams{
		Title:       req.Title,
		Description: req.Description,
		Game:        req.Game,
		Condition:   entity.CardCondition(req.Condition),
		Price:       req.Price,
		Location:    req.Location,
	})
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, listing)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(h.log, w, "invalid request body")
		return
	}

	listing, err := h.listings.Update(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), service.UpdateListingParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
	})
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, listing)
}

func (h *ListingHandler) Archive(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Archive(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, listing)
}

func (h *ListingHandler) Restore(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Restore(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.PermanentlyDelete(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context())); err != nil {
		respondError(h.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) Buy(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.BuyNow(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, order)
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ListingFilter{
		Query:     q.Get("q"),
		Game:      q.Get("game"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(q.Get("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(q.Get("max_price"), 64)
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	if filter.Query != "" {
		if err := h.trending.Record(r.Context(), filter.Query); err != nil {
			h.log.Warnf("failed to record trending query %q: %v", filter.Query, err)
		}
	}

	page, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, page)
}

func (h *ListingHandler) TrendingSearches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	entries, err := h.trending.Top(r.Context(), limit)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, entries)
}

func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	view, err := h.listings.Dashboard(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, view)
}

func (h *ListingHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		badRequest(h.log, w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequest(h.log, w, "missing photo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		respondError(h.log, w, err)
		return
	}

	listing, err := h.listings.AddPhoto(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.UserID(r.Context()),
		header.Filename,
		data,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, listing)
}
