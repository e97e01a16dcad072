package repository

import (
	"context"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
)

// ListingFilter narrows listing queries. Zero values mean "no constraint".
type ListingFilter struct {
	UserID    string
	Statuses  []entity.ListingStatus
	Game      string
	Query     string
	MinPrice  float64
	MaxPrice  float64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListingPage struct {
	Listings   []entity.Listing
	TotalCount int64
}

// ListingPatch is the single-document update a lifecycle transition produces.
// Only non-nil fields are written; Unset names fields to clear. Version gates
// the write optimistically.
type ListingPatch struct {
	Set     map[string]interface{}
	Unset   []string
	Version int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Patch(ctx context.Context, id string, patch ListingPatch) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, filter ListingFilter) (*ListingPage, error)
	// FindExpired returns listings in the given statuses whose expires_at is
	// strictly before now. Used by the sweep.
	FindExpired(ctx context.Context, statuses []entity.ListingStatus, now time.Time) ([]entity.Listing, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entity.Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error)
}
