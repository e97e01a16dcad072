package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/port/http/handler"
	"github.com/tcgbay/marketplace/internal/port/http/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Listings  *handler.ListingHandler
	Offers    *handler.OfferHandler
	Orders    *handler.OrderHandler
	Wanted    *handler.WantedHandler
	Messages  *handler.MessageHandler
	Favorites *handler.FavoriteHandler
	Sweep     *handler.SweepHandler
}

func New(h Handlers, jwtSecret, serviceName string, log logger.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.Tracing(serviceName))
	mux.Use(middleware.RequestLogger(log))

	// Public routes.
	mux.Get("/api/listings", h.Listings.Search)
	mux.Get("/api/listings/{id}", h.Listings.Get)
	mux.Get("/api/search/trending", h.Listings.TrendingSearches)
	mux.Get("/api/wanted", h.Wanted.Browse)
	mux.Post("/api/payments/webhook", h.Orders.PaymentWebhook)
	mux.Post("/internal/sweep", h.Sweep.Trigger)
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Authenticated routes.
	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret))

		r.Post("/api/listings", h.Listings.Create)
		r.Get("/api/listings/mine", h.Listings.Mine)
		r.Put("/api/listings/{id}", h.Listings.Update)
		r.Delete("/api/listings/{id}", h.Listings.Delete)
		r.Post("/api/listings/{id}/archive", h.Listings.Archive)
		r.Post("/api/listings/{id}/restore", h.Listings.Restore)
		r.Post("/api/listings/{id}/buy", h.Listings.Buy)
		r.Post("/api/listings/{id}/photos", h.Listings.UploadPhoto)
		r.Post("/api/listings/{id}/offers", h.Offers.Make)
		r.Post("/api/listings/{id}/threads", h.Messages.StartThread)

		r.Get("/api/offers", h.Offers.List)
		r.Post("/api/offers/{id}/accept", h.Offers.Accept)
		r.Post("/api/offers/{id}/decline", h.Offers.Decline)
		r.Post("/api/offers/{id}/withdraw", h.Offers.Withdraw)

		r.Get("/api/orders", h.Orders.List)
		r.Post("/api/orders/{id}/cancel", h.Orders.Cancel)

		r.Post("/api/wanted", h.Wanted.Create)
		r.Post("/api/wanted/{id}/close", h.Wanted.Close)

		r.Get("/api/favorites", h.Favorites.List)
		r.Post("/api/favorites", h.Favorites.Add)
		r.Delete("/api/favorites/{listingID}", h.Favorites.Remove)

		r.Get("/api/threads", h.Messages.Threads)
		r.Get("/api/threads/{id}/messages", h.Messages.Messages)
		r.Post("/api/threads/{id}/messages", h.Messages.Post)
	})

	return mux
}
