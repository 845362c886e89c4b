package listing

import "context"

// Repository provides persistence for listings. Insert assigns the ID.
// Recent returns at most limit listings ordered by ListedAt descending,
// skipping records it cannot decode.
type Repository interface {
	Insert(ctx context.Context, l *Listing) error
	Recent(ctx context.Context, limit int) (Batch, error)
	Get(ctx context.Context, id string) (*Listing, error)
}

// EventPublisher announces persisted listings.
type EventPublisher interface {
	PublishCreated(ctx context.Context, l Listing) error
}
