package service

import (
	"context"
	"errors"
	"time"

	"github.com/tcgbay/marketplace/internal/adapter/email"
	"github.com/tcgbay/marketplace/internal/adapter/nats"
	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

// archiveWarningWindow is how close to deletion an archived listing must be
// before its owner gets a warning email.
const archiveWarningWindow = 24 * time.Hour

// SweepReport summarises one sweep pass.
type SweepReport struct {
	ListingsDeleted  int `json:"listings_deleted"`
	ListingsArchived int `json:"listings_archived"`
	OffersExpired    int `json:"offers_expired"`
	WarningsSent     int `json:"warnings_sent"`
}

// Sweeper enforces expiration in batch: expired archived listings are
// permanently removed, expired active listings are auto-archived (reversible,
// rather than silently deleted), and stale pending offers are expired.
// Running it twice with no intervening change is a no-op the second time.
type Sweeper struct {
	listings  repository.ListingRepository
	offers    repository.OfferRepository
	users     repository.UserRepository
	cache     ListingCache
	publisher nats.MessagePublisher
	mail      email.Sender
	log       logger.Logger
	now       nowFunc
}

func NewSweeper(
	listings repository.ListingRepository,
	offers repository.OfferRepository,
	users repository.UserRepository,
	cache ListingCache,
	publisher nats.MessagePublisher,
	mail email.Sender,
	log logger.Logger,
) *Sweeper {
	return &Sweeper{
		listings:  listings,
		offers:    offers,
		users:     users,
		cache:     cache,
		publisher: publisher,
		mail:      mail,
		log:       log,
		now:       time.Now,
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (*SweepReport, error) {
	now := s.now().UTC()
	report := &SweepReport{}

	expired, err := s.listings.FindExpired(ctx, []entity.ListingStatus{entity.ListingActive, entity.ListingArchived}, now)
	if err != nil {
		return nil, err
	}

	for i := range expired {
		l := expired[i]
		switch l.Status {
		case entity.ListingArchived:
			if err := s.purge(ctx, &l); err != nil {
				s.log.Errorf("sweep: failed to purge listing %s: %v", l.ID, err)
				continue
			}
			report.ListingsDeleted++
		case entity.ListingActive:
			if err := s.autoArchive(ctx, &l, now); err != nil {
				s.log.Errorf("sweep: failed to auto-archive listing %s: %v", l.ID, err)
				continue
			}
			report.ListingsArchived++
		}
	}

	report.OffersExpired = s.expireOffers(ctx, now)
	report.WarningsSent = s.warnExpiringArchives(ctx, now)

	s.log.Infof("sweep finished: %d deleted, %d auto-archived, %d offers expired, %d warnings",
		report.ListingsDeleted, report.ListingsArchived, report.OffersExpired, report.WarningsSent)
	return report, nil
}

func (s *Sweeper) purge(ctx context.Context, l *entity.Listing) error {
	if err := s.listings.Delete(ctx, l.ID); err != nil {
		// Already gone counts as done; the sweep stays idempotent.
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.cache.Invalidate(ctx, l.ID); err != nil {
		s.log.Warnf("sweep: cache invalidation failed for %s: %v", l.ID, err)
	}
	if err := s.publisher.Publish(ctx, nats.SubjectListingDeleted, l); err != nil {
		s.log.Warnf("sweep: failed to publish delete event for %s: %v", l.ID, err)
	}
	return nil
}

func (s *Sweeper) autoArchive(ctx context.Context, l *entity.Listing, now time.Time) error {
	version := l.Version
	if err := l.Archive(now); err != nil {
		return err
	}

	patch := repository.ListingPatch{
		Set: map[string]interface{}{
			"status":              l.Status,
			"archived_at":         l.ArchivedAt,
			"previous_status":     l.PreviousStatus,
			"previous_expires_at": l.PreviousExpiresAt,
			"original_created_at": l.OriginalCreatedAt,
			"expires_at":          l.ExpiresAt,
			"updated_at":          l.UpdatedAt,
		},
		Version: version,
	}
	if err := s.listings.Patch(ctx, l.ID, patch); err != nil {
		// A concurrent transition already moved this listing on; skip it.
		if errors.Is(err, repository.ErrOptimisticLock) || errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.cache.Invalidate(ctx, l.ID); err != nil {
		s.log.Warnf("sweep: cache invalidation failed for %s: %v", l.ID, err)
	}
	if err := s.publisher.Publish(ctx, nats.SubjectListingExpired, l); err != nil {
		s.log.Warnf("sweep: failed to publish expiry event for %s: %v", l.ID, err)
	}
	return nil
}

func (s *Sweeper) expireOffers(ctx context.Context, now time.Time) int {
	stale, err := s.offers.FindExpired(ctx, now)
	if err != nil {
		s.log.Errorf("sweep: failed to find expired offers: %v", err)
		return 0
	}

	count := 0
	for i := range stale {
		o := stale[i]
		if err := s.offers.UpdateStatus(ctx, o.ID, entity.OfferExpired, now); err != nil {
			s.log.Errorf("sweep: failed to expire offer %s: %v", o.ID, err)
			continue
		}
		o.Status = entity.OfferExpired
		if err := s.publisher.Publish(ctx, nats.SubjectOfferExpired, &o); err != nil {
			s.log.Warnf("sweep: failed to publish offer expiry for %s: %v", o.ID, err)
		}
		count++
	}
	return count
}

func (s *Sweeper) warnExpiringArchives(ctx context.Context, now time.Time) int {
	// Everything expiring inside the warning window, minus what is already
	// expired (that batch was just purged above).
	horizon := now.Add(archiveWarningWindow)
	closing, err := s.listings.FindExpired(ctx, []entity.ListingStatus{entity.ListingArchived}, horizon)
	if err != nil {
		s.log.Errorf("sweep: failed to find expiring archives: %v", err)
		return 0
	}

	count := 0
	for i := range closing {
		l := closing[i]
		if l.IsExpired(now) {
			continue
		}
		owner, err := s.users.GetByID(ctx, l.UserID)
		if err != nil {
			continue
		}
		daysLeft := int(l.ExpiresAt.Sub(now).Hours()/24) + 1
		if err := s.mail.SendArchiveExpiryWarning(owner.Email, l.Title, daysLeft); err != nil {
			s.log.Warnf("sweep: failed to send expiry warning for %s: %v", l.ID, err)
			continue
		}
		count++
	}
	return count
}

// Run executes a sweep on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Errorf("scheduled sweep failed: %v", err)
			}
		}
	}
}
