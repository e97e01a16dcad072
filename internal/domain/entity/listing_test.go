package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcgbay/marketplace/internal/domain/tier"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newActiveListing(t *testing.T, accountTier tier.Tier) *Listing {
	t.Helper()
	l, err := NewListing("user-1", "Charizard Holo", "pokemon", ConditionNearMint, 120.0, accountTier, t0)
	require.NoError(t, err)
	return l
}

func TestNewListing_FreeTierExpiry(t *testing.T) {
	l := newActiveListing(t, tier.Free)

	assert.Equal(t, ListingActive, l.Status)
	assert.Equal(t, t0.Add(48*time.Hour), l.ExpiresAt)
	assert.Nil(t, l.ArchivedAt)
}

func TestNewListing_PremiumTierExpiry(t *testing.T) {
	l := newActiveListing(t, tier.Premium)

	assert.Equal(t, t0.Add(720*time.Hour), l.ExpiresAt)
}

func TestNewListing_Validation(t *testing.T) {
	_, err := NewListing("", "title", "mtg", ConditionMint, 1, tier.Free, t0)
	assert.Error(t, err)

	_, err = NewListing("user-1", "", "mtg", ConditionMint, 1, tier.Free, t0)
	assert.Error(t, err)

	_, err = NewListing("user-1", "title", "mtg", ConditionMint, -5, tier.Free, t0)
	assert.Error(t, err)
}

func TestArchive_SetsRetentionWindowAndSnapshots(t *testing.T) {
	l := newActiveListing(t, tier.Premium)
	originalExpiry := l.ExpiresAt
	archiveAt := t0.Add(10 * time.Hour)

	require.NoError(t, l.Archive(archiveAt))

	assert.Equal(t, ListingArchived, l.Status)
	require.NotNil(t, l.ArchivedAt)
	assert.Equal(t, archiveAt, *l.ArchivedAt)
	assert.Equal(t, archiveAt.Add(7*24*time.Hour), l.ExpiresAt)
	require.NotNil(t, l.PreviousStatus)
	assert.Equal(t, ListingActive, *l.PreviousStatus)
	require.NotNil(t, l.PreviousExpiresAt)
	assert.Equal(t, originalExpiry, *l.PreviousExpiresAt)
	require.NotNil(t, l.OriginalCreatedAt)
	assert.Equal(t, t0, *l.OriginalCreatedAt)
}

func TestArchive_OnlyFromActive(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	require.NoError(t, l.Archive(t0.Add(time.Hour)))

	err := l.Archive(t0.Add(2 * time.Hour))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestRestore_ResetsClock(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	require.NoError(t, l.Archive(t0.Add(10*time.Hour)))

	restoreAt := t0.Add(20 * time.Hour)
	require.NoError(t, l.Restore(restoreAt, tier.Free))

	assert.Equal(t, ListingActive, l.Status)
	assert.Equal(t, restoreAt, l.CreatedAt)
	assert.Equal(t, restoreAt.Add(48*time.Hour), l.ExpiresAt)
	assert.Nil(t, l.ArchivedAt)
	assert.Nil(t, l.PreviousStatus)
	assert.Nil(t, l.PreviousExpiresAt)
	assert.Nil(t, l.OriginalCreatedAt)
}

func TestRestore_UsesCurrentTier(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	require.NoError(t, l.Archive(t0.Add(time.Hour)))

	restoreAt := t0.Add(2 * time.Hour)
	require.NoError(t, l.Restore(restoreAt, tier.Premium))

	assert.Equal(t, restoreAt.Add(720*time.Hour), l.ExpiresAt)
}

func TestRestore_FailsFromActive(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	before := *l

	err := l.Restore(t0.Add(time.Hour), tier.Free)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, before, *l, "failed restore must leave the listing unchanged")
}

func TestMarkSold_Terminal(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	soldAt := t0.Add(5 * time.Hour)

	require.NoError(t, l.MarkSold(soldAt, "buyer-9"))

	assert.Equal(t, ListingSold, l.Status)
	assert.Equal(t, "buyer-9", l.BuyerID)
	require.NotNil(t, l.SoldAt)
	assert.Equal(t, soldAt, *l.SoldAt)

	assert.True(t, errors.Is(l.Archive(soldAt.Add(time.Hour)), ErrInvalidTransition))
	assert.True(t, errors.Is(l.MarkSold(soldAt.Add(time.Hour), "buyer-10"), ErrInvalidTransition))

	// A sold listing never expires, no matter how far the clock advances.
	assert.False(t, l.IsExpired(soldAt.Add(10000*time.Hour)))
}

func TestMarkSold_RequiresBuyer(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	assert.Error(t, l.MarkSold(t0, ""))
}

func TestIsExpired_Monotonic(t *testing.T) {
	l := newActiveListing(t, tier.Free)

	assert.False(t, l.IsExpired(t0))
	assert.False(t, l.IsExpired(l.ExpiresAt))

	firstExpired := l.ExpiresAt.Add(time.Nanosecond)
	assert.True(t, l.IsExpired(firstExpired))
	assert.True(t, l.IsExpired(firstExpired.Add(24*time.Hour)))
	assert.True(t, l.IsExpired(firstExpired.Add(365*24*time.Hour)))
}

func TestArchivedAtInvariant(t *testing.T) {
	l := newActiveListing(t, tier.Free)
	assert.Nil(t, l.ArchivedAt)

	require.NoError(t, l.Archive(t0.Add(time.Hour)))
	assert.NotNil(t, l.ArchivedAt)

	require.NoError(t, l.Restore(t0.Add(2*time.Hour), tier.Free))
	assert.Nil(t, l.ArchivedAt)
}
