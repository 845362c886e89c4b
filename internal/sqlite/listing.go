package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/repository"
)

// ListingRepository implements listing.Repository for SQLite
type ListingRepository struct {
	db *DB
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// listingDocument is the JSON body stored in listings.doc
type listingDocument struct {
	Swipes        int      `json:"swipes"`
	PricePerSwipe float64  `json:"pricePerSwipe"`
	Dates         []string `json:"dates"`
	Meals         []string `json:"meals"`
	Locations     []string `json:"locations"`
	Buyer         string   `json:"buyer"`
	ContactInfo   string   `json:"contactInfo"`
	Note          string   `json:"note"`
}

// Insert stores a listing, assigning a UUID when ID is empty
func (r *ListingRepository) Insert(ctx context.Context, l *listing.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}

	doc, err := json.Marshal(toDocument(l))
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO listings (id, listed_at, doc) VALUES (?, ?, ?)`,
		l.ID, l.ListedAt.UnixMilli(), string(doc),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	return nil
}

// Recent returns the newest listings, skipping rows whose document is malformed
func (r *ListingRepository) Recent(ctx context.Context, limit int) (listing.Batch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, listed_at, doc
		FROM listings
		ORDER BY listed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return listing.Batch{}, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	batch := listing.Batch{Listings: []listing.Listing{}}
	for rows.Next() {
		var (
			id       string
			listedAt int64
			doc      string
		)
		if err := rows.Scan(&id, &listedAt, &doc); err != nil {
			return listing.Batch{}, fmt.Errorf("failed to scan listing: %w", err)
		}
		l, err := decodeListing(id, listedAt, doc)
		if err != nil {
			batch.Skipped++
			continue
		}
		batch.Listings = append(batch.Listings, *l)
	}

	if err := rows.Err(); err != nil {
		return listing.Batch{}, fmt.Errorf("error iterating listings: %w", err)
	}

	return batch, nil
}

// Get retrieves a listing by ID
func (r *ListingRepository) Get(ctx context.Context, id string) (*listing.Listing, error) {
	var (
		listedAt int64
		doc      string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT listed_at, doc FROM listings WHERE id = ?`, id,
	).Scan(&listedAt, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return decodeListing(id, listedAt, doc)
}

func toDocument(l *listing.Listing) listingDocument {
	doc := listingDocument{
		Swipes:        l.SwipeCount,
		PricePerSwipe: l.PricePerSwipe,
		Buyer:         l.BuyerName,
		ContactInfo:   l.ContactPhone,
		Note:          l.Note,
	}
	for _, d := range l.Dates {
		doc.Dates = append(doc.Dates, string(d))
	}
	for _, m := range l.Meals {
		doc.Meals = append(doc.Meals, string(m))
	}
	for _, loc := range l.Locations {
		doc.Locations = append(doc.Locations, string(loc))
	}
	return doc
}

func decodeListing(id string, listedAt int64, raw string) (*listing.Listing, error) {
	var doc listingDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &listing.DecodeError{ID: id, Err: err}
	}

	l := &listing.Listing{
		ID:            id,
		SwipeCount:    doc.Swipes,
		PricePerSwipe: doc.PricePerSwipe,
		BuyerName:     doc.Buyer,
		ContactPhone:  doc.ContactInfo,
		Note:          doc.Note,
		ListedAt:      time.UnixMilli(listedAt).UTC(),
	}
	for _, s := range doc.Dates {
		d, err := listing.ParseDate(s)
		if err != nil {
			return nil, &listing.DecodeError{ID: id, Err: err}
		}
		l.Dates = append(l.Dates, d)
	}
	for _, m := range doc.Meals {
		l.Meals = append(l.Meals, listing.Meal(m))
	}
	for _, loc := range doc.Locations {
		l.Locations = append(l.Locations, listing.Location(loc))
	}

	if err := listing.ValidateStored(*l); err != nil {
		return nil, &listing.DecodeError{ID: id, Err: err}
	}
	return l, nil
}
