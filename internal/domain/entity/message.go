package entity

import (
	"fmt"
	"time"
)

// Thread is a conversation between a buyer and a seller about one listing.
// One thread per (listing, buyer) pair.
type Thread struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	ListingID    string    `bson:"listing_id" json:"listing_id"`
	SellerID     string    `bson:"seller_id" json:"seller_id"`
	BuyerID      string    `bson:"buyer_id" json:"buyer_id"`
	LastMessage  string    `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastSenderID string    `bson:"last_sender_id,omitempty" json:"last_sender_id,omitempty"`
	UnreadBySeller int     `bson:"unread_by_seller" json:"unread_by_seller"`
	UnreadByBuyer  int     `bson:"unread_by_buyer" json:"unread_by_buyer"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func NewThread(listingID, sellerID, buyerID string, now time.Time) (*Thread, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing ID cannot be empty", ErrValidation)
	}
	if sellerID == "" || buyerID == "" {
		return nil, fmt.Errorf("%w: seller and buyer IDs cannot be empty", ErrValidation)
	}
	if sellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot start a thread with yourself", ErrValidation)
	}

	now = now.UTC()
	return &Thread{
		ListingID: listingID,
		SellerID:  sellerID,
		BuyerID:   buyerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasParticipant reports whether the user belongs to the thread.
func (t *Thread) HasParticipant(userID string) bool {
	return userID == t.SellerID || userID == t.BuyerID
}

// RecordMessage updates the thread summary and bumps the unread counter of
// the other participant.
func (t *Thread) RecordMessage(senderID, body string, now time.Time) {
	t.LastMessage = body
	t.LastSenderID = senderID
	if senderID == t.SellerID {
		t.UnreadByBuyer++
	} else {
		t.UnreadBySeller++
	}
	t.UpdatedAt = now.UTC()
}

type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ThreadID  string    `bson:"thread_id" json:"thread_id"`
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func NewMessage(threadID, senderID, body string, now time.Time) (*Message, error) {
	if threadID == "" {
		return nil, fmt.Errorf("%w: thread ID cannot be empty", ErrValidation)
	}
	if senderID == "" {
		return nil, fmt.Errorf("%w: sender ID cannot be empty", ErrValidation)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: message body cannot be empty", ErrValidation)
	}

	return &Message{
		ThreadID:  threadID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: now.UTC(),
	}, nil
}
