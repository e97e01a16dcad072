package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tcgbay/marketplace/internal/adapter/nats"
	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

// PhotoStore uploads and removes listing photos.
type PhotoStore interface {
	Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, photoURL string) error
}

type CreateListingParams struct {
	Title       string
	Description string
	Game        string
	Condition   entity.CardCondition
	Price       float64
	Location    string
}

type UpdateListingParams struct {
	Title       string
	Description string
	Price       float64
	Location    string
}

// ListingService is the lifecycle manager: the only component that mutates a
// listing's status and timestamp fields. Every successful transition persists
// a single-document patch, invalidates the cache entry, and publishes an
// event.
type ListingService interface {
	Create(ctx context.Context, userID string, params CreateListingParams) (*entity.Listing, error)
	Get(ctx context.Context, id string) (*entity.Listing, error)
	Search(ctx context.Context, filter repository.ListingFilter) (*repository.ListingPage, error)
	Dashboard(ctx context.Context, userID string) (*DashboardView, error)
	Update(ctx context.Context, id, userID string, params UpdateListingParams) (*entity.Listing, error)
	Archive(ctx context.Context, id, userID string) (*entity.Listing, error)
	Restore(ctx context.Context, id, userID string) (*entity.Listing, error)
	PermanentlyDelete(ctx context.Context, id, userID string) error
	MarkSold(ctx context.Context, id, buyerID string) (*entity.Listing, error)
	AddPhoto(ctx context.Context, id, userID, fileName string, data []byte, contentType string) (*entity.Listing, error)
}

type DashboardView struct {
	Active   []entity.Listing `json:"active"`
	Archived []entity.Listing `json:"archived"`
	Sold     []entity.Listing `json:"sold"`
}

type listingService struct {
	repo      repository.ListingRepository
	cache     ListingCache
	tiers     TierSource
	photos    PhotoStore
	publisher nats.MessagePublisher
	log       logger.Logger
	now       nowFunc
}

func NewListingService(
	repo repository.ListingRepository,
	cache ListingCache,
	tiers TierSource,
	photos PhotoStore,
	publisher nats.MessagePublisher,
	log logger.Logger,
) ListingService {
	return &listingService{
		repo:      repo,
		cache:     cache,
		tiers:     tiers,
		photos:    photos,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *listingService) Create(ctx context.Context, userID string, params CreateListingParams) (*entity.Listing, error) {
	accountTier, err := s.tiers.CurrentTier(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tier for user %s: %w", userID, err)
	}

	listing, err := entity.NewListing(userID, params.Title, params.Game, params.Condition, params.Price, accountTier, s.now())
	if err != nil {
		return nil, err
	}
	listing.Description = params.Description
	listing.Location = params.Location

	if _, err := s.repo.Create(ctx, listing); err != nil {
		s.log.Errorf("failed to create listing for user %s: %v", userID, err)
		return nil, err
	}

	s.log.Infof("listing %s created by user %s (tier %s, expires %s)",
		listing.ID, userID, accountTier, listing.ExpiresAt.Format(time.RFC3339))
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id string) (*entity.Listing, error) {
	if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.Warnf("listing cache read failed for %s: %v", id, err)
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, listing); err != nil {
		s.log.Warnf("listing cache write failed for %s: %v", id, err)
	}
	return listing, nil
}

func (s *listingService) Search(ctx context.Context, filter repository.ListingFilter) (*repository.ListingPage, error) {
	if len(filter.Statuses) == 0 {
		filter.Statuses = []entity.ListingStatus{entity.ListingActive}
	}
	page, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	// Read-time safety net: never show active listings whose expiry passed
	// but the sweep has not picked up yet.
	page.Listings = dropExpiredActive(page.Listings, s.now())
	return page, nil
}

// Dashboard returns the owner's listings grouped by status, with the
// visibility filter applied so logically-gone listings are never shown.
func (s *listingService) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	page, err := s.repo.Find(ctx, repository.ListingFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := &DashboardView{
		Active:   VisibleActive(page.Listings, now),
		Archived: VisibleArchived(page.Listings, now),
	}
	for _, l := range page.Listings {
		if l.Status == entity.ListingSold {
			view.Sold = append(view.Sold, l)
		}
	}
	return view, nil
}

func (s *listingService) Update(ctx context.Context, id, userID string, params UpdateListingParams) (*entity.Listing, error) {
	listing, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if params.Title != "" {
		listing.Title = params.Title
	}
	if params.Description != "" {
		listing.Description = params.Description
	}
	if params.Price > 0 {
		listing.Price = params.Price
	}
	if params.Location != "" {
		listing.Location = params.Location
	}

	now := s.now().UTC()
	patch := repository.ListingPatch{
		Set: map[string]interface{}{
			"title":       listing.Title,
			"description": listing.Description,
			"price":       listing.Price,
			"location":    listing.Location,
			"updated_at":  now,
		},
		Version: listing.Version,
	}
	if err := s.applyPatch(ctx, listing, patch); err != nil {
		return nil, err
	}
	listing.UpdatedAt = now
	return listing, nil
}

func (s *listingService) Archive(ctx context.Context, id, userID string) (*entity.Listing, error) {
	listing, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	version := listing.Version
	if err := listing.Archive(s.now()); err != nil {
		return nil, err
	}

	patch := repository.ListingPatch{
		Set: map[string]interface{}{
			"status":              listing.Status,
			"archived_at":         listing.ArchivedAt,
			"previous_status":     listing.PreviousStatus,
			"previous_expires_at": listing.PreviousExpiresAt,
			"original_created_at": listing.OriginalCreatedAt,
			"expires_at":          listing.ExpiresAt,
			"updated_at":          listing.UpdatedAt,
		},
		Version: version,
	}
	if err := s.applyPatch(ctx, listing, patch); err != nil {
		return nil, err
	}

	s.publish(ctx, nats.SubjectListingArchived, listing)
	s.log.Infof("listing %s archived by user %s, retained until %s",
		listing.ID, userID, listing.ExpiresAt.Format(time.RFC3339))
	return listing, nil
}

func (s *listingService) Restore(ctx context.Context, id, userID string) (*entity.Listing, error) {
	listing, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	accountTier, err := s.tiers.CurrentTier(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tier for user %s: %w", userID, err)
	}

	version := listing.Version
	if err := listing.Restore(s.now(), accountTier); err != nil {
		return nil, err
	}

	patch := repository.ListingPatch{
		Set: map[string]interface{}{
			"status":     listing.Status,
			"created_at": listing.CreatedAt,
			"expires_at": listing.ExpiresAt,
			"updated_at": listing.UpdatedAt,
		},
		Unset:   []string{"archived_at", "previous_status", "previous_expires_at", "original_created_at"},
		Version: version,
	}
	if err := s.applyPatch(ctx, listing, patch); err != nil {
		return nil, err
	}

	s.publish(ctx, nats.SubjectListingRestored, listing)
	s.log.Infof("listing %s restored by user %s, expires %s",
		listing.ID, userID, listing.ExpiresAt.Format(time.RFC3339))
	return listing, nil
}

func (s *listingService) PermanentlyDelete(ctx context.Context, id, userID string) error {
	listing, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	for _, photoURL := range listing.Photos {
		if err := s.photos.Remove(ctx, photoURL); err != nil {
			s.log.Warnf("failed to remove photo for deleted listing %s: %v", id, err)
		}
	}

	s.invalidate(ctx, id)
	s.publish(ctx, nats.SubjectListingDeleted, listing)
	s.log.Infof("listing %s permanently deleted by user %s", id, userID)
	return nil
}

// MarkSold is invoked by the order flow once payment confirms. The buyer is
// the authenticated purchaser, not the listing owner.
func (s *listingService) MarkSold(ctx context.Context, id, buyerID string) (*entity.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	version := listing.Version
	if err := listing.MarkSold(s.now(), buyerID); err != nil {
		return nil, err
	}

	patch := repository.ListingPatch{
		Set: map[string]interface{}{
			"status":     listing.Status,
			"sold_at":    listing.SoldAt,
			"buyer_id":   listing.BuyerID,
			"updated_at": listing.UpdatedAt,
		},
		Version: version,
	}
	if err := s.applyPatch(ctx, listing, patch); err != nil {
		return nil, err
	}

	s.publish(ctx, nats.SubjectListingSold, listing)
	s.log.Infof("listing %s marked sold to buyer %s", id, buyerID)
	return listing, nil
}

func (s *listingService) AddPhoto(ctx context.Context, id, userID, fileName string, data []byte, contentType string) (*entity.Listing, error) {
	listing, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.photos.Upload(ctx, fileName, data, contentType)
	if err != nil {
		return nil, err
	}
	listing.Photos = append(listing.Photos, url)

	patch := repository.ListingPatch{
		Set: map[string]interface{}{
			"photos":     listing.Photos,
			"updated_at": s.now().UTC(),
		},
		Version: listing.Version,
	}
	if err := s.applyPatch(ctx, listing, patch); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) getOwned(ctx context.Context, id, userID string) (*entity.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.UserID != userID {
		s.log.Warnf("user %s attempted to modify listing %s owned by %s", userID, id, listing.UserID)
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *listingService) applyPatch(ctx context.Context, listing *entity.Listing, patch repository.ListingPatch) error {
	if err := s.repo.Patch(ctx, listing.ID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	s.invalidate(ctx, listing.ID)
	return nil
}

func (s *listingService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warnf("listing cache invalidation failed for %s: %v", id, err)
	}
}

func (s *listingService) publish(ctx context.Context, subject string, listing *entity.Listing) {
	if err := s.publisher.Publish(ctx, subject, listing); err != nil {
		s.log.Warnf("failed to publish %s for listing %s: %v", subject, listing.ID, err)
	}
}
