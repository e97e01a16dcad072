package service

import (
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
)

// VisibleActive returns the listings that belong in the active view at the
// given instant: active status and not yet expired. Pure filter, no writes;
// this is the read-time safety net for the window between expiry and the next
// sweep.
func VisibleActive(listings []entity.Listing, now time.Time) []entity.Listing {
	visible := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == entity.ListingActive && !l.IsExpired(now) {
			visible = append(visible, l)
		}
	}
	return visible
}

// VisibleArchived returns archived listings still inside their retention
// window. Archived listings past the window are logically gone even if the
// delete sweep has not run yet.
func VisibleArchived(listings []entity.Listing, now time.Time) []entity.Listing {
	visible := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == entity.ListingArchived && !l.IsExpired(now) {
			visible = append(visible, l)
		}
	}
	return visible
}

func dropExpiredActive(listings []entity.Listing, now time.Time) []entity.Listing {
	kept := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == entity.ListingActive && l.IsExpired(now) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
