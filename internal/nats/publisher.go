package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/zotswipe/internal/domain/listing"
)

// ListingCreatedSubject is the default subject for new listings.
const ListingCreatedSubject = "listings.created"

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// ListingCreatedEvent is the message body published for a new listing.
type ListingCreatedEvent struct {
	listing.Listing
	Total float64 `json:"total"`
}

// Publisher implements listing.EventPublisher over NATS.
type Publisher struct {
	conn    Conn
	subject string
}

// NewPublisher creates a publisher. An empty subject uses ListingCreatedSubject.
func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = ListingCreatedSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

// PublishCreated sends l on the configured subject.
func (p *Publisher) PublishCreated(_ context.Context, l listing.Listing) error {
	data, err := json.Marshal(ListingCreatedEvent{Listing: l, Total: l.Total()})
	if err != nil {
		return fmt.Errorf("failed to encode listing event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", p.subject, err)
	}
	return nil
}
