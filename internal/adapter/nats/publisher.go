package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subjects for marketplace events.
const (
	SubjectListingArchived = "listing.archived"
	SubjectListingRestored = "listing.restored"
	SubjectListingDeleted  = "listing.deleted"
	SubjectListingSold     = "listing.sold"
	SubjectListingExpired  = "listing.expired"
	SubjectOfferReceived   = "offer.received"
	SubjectOfferAccepted   = "offer.accepted"
	SubjectOfferDeclined   = "offer.declined"
	SubjectOfferExpired    = "offer.expired"
	SubjectOrderCreated    = "order.created"
	SubjectOrderPaid       = "order.paid"
	SubjectOrderCancelled  = "order.cancelled"
)

type MessagePublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
}

type natsPublisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) (MessagePublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message for subject %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS subject %s: %w", subject, err)
	}
	return nil
}
