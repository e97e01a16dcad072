package entity

import (
	"fmt"
	"time"
)

type WantedStatus string

const (
	WantedOpen      WantedStatus = "open"
	WantedFulfilled WantedStatus = "fulfilled"
	WantedClosed    WantedStatus = "closed"
)

// WantedPost is a buyer's standing request for a card they are looking for.
type WantedPost struct {
	ID        string       `bson:"_id,omitempty" json:"id"`
	UserID    string       `bson:"user_id" json:"user_id"`
	Title     string       `bson:"title" json:"title"`
	Game      string       `bson:"game" json:"game"`
	MaxPrice  float64      `bson:"max_price,omitempty" json:"max_price,omitempty"`
	Notes     string       `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    WantedStatus `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}

func NewWantedPost(userID, title, game string, maxPrice float64, notes string, now time.Time) (*WantedPost, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if maxPrice < 0 {
		return nil, fmt.Errorf("%w: max price cannot be negative", ErrValidation)
	}

	now = now.UTC()
	return &WantedPost{
		UserID:    userID,
		Title:     title,
		Game:      game,
		MaxPrice:  maxPrice,
		Notes:     notes,
		Status:    WantedOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (w *WantedPost) Close(now time.Time, fulfilled bool) error {
	if w.Status != WantedOpen {
		return fmt.Errorf("%w: wanted post is already closed", ErrInvalidTransition)
	}
	if fulfilled {
		w.Status = WantedFulfilled
	} else {
		w.Status = WantedClosed
	}
	w.UpdatedAt = now.UTC()
	return nil
}
