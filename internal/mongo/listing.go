package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listingDocument mirrors the stored listing shape.
type listingDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Swipes        int                `bson:"swipes"`
	PricePerSwipe float64            `bson:"pricePerSwipe"`
	Dates         []time.Time        `bson:"dates"`
	Meals         []string           `bson:"meals"`
	Locations     []string           `bson:"locations"`
	Buyer         string             `bson:"buyer"`
	ListedTime    time.Time          `bson:"listedTime"`
	ContactInfo   string             `bson:"contactInfo"`
	Note          string             `bson:"note"`
}

// ListingRepository implements listing.Repository on a MongoDB collection.
type ListingRepository struct {
	coll *mongo.Collection
}

// NewListingRepository creates a repository over coll.
func NewListingRepository(coll *mongo.Collection) *ListingRepository {
	return &ListingRepository{coll: coll}
}

// Insert stores l under a fresh ObjectID and writes the hex id back to l.
func (r *ListingRepository) Insert(ctx context.Context, l *listing.Listing) error {
	doc, err := toDocument(l)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	l.ID = doc.ID.Hex()
	return nil
}

// Recent returns the newest listings. Documents that fail to decode are counted and skipped.
func (r *ListingRepository) Recent(ctx context.Context, limit int) (listing.Batch, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "listedTime", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return listing.Batch{}, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	batch := listing.Batch{Listings: []listing.Listing{}}
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			batch.Skipped++
			continue
		}
		l, err := fromDocument(doc)
		if err != nil {
			batch.Skipped++
			continue
		}
		batch.Listings = append(batch.Listings, *l)
	}
	if err := cursor.Err(); err != nil {
		return listing.Batch{}, fmt.Errorf("error iterating listings: %w", err)
	}

	return batch, nil
}

// Get retrieves a listing by its hex ObjectID.
func (r *ListingRepository) Get(ctx context.Context, id string) (*listing.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	res := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	var doc listingDocument
	if err := res.Decode(&doc); err != nil {
		return nil, &listing.DecodeError{ID: id, Err: err}
	}

	return fromDocument(doc)
}

func toDocument(l *listing.Listing) (listingDocument, error) {
	doc := listingDocument{
		Swipes:        l.SwipeCount,
		PricePerSwipe: l.PricePerSwipe,
		Buyer:         l.BuyerName,
		ListedTime:    l.ListedAt,
		ContactInfo:   l.ContactPhone,
		Note:          l.Note,
	}
	for _, d := range l.Dates {
		t, err := d.Time()
		if err != nil {
			return listingDocument{}, fmt.Errorf("encoding date %q: %w", d, err)
		}
		doc.Dates = append(doc.Dates, t)
	}
	for _, m := range l.Meals {
		doc.Meals = append(doc.Meals, string(m))
	}
	for _, loc := range l.Locations {
		doc.Locations = append(doc.Locations, string(loc))
	}
	return doc, nil
}

func fromDocument(doc listingDocument) (*listing.Listing, error) {
	l := &listing.Listing{
		ID:            doc.ID.Hex(),
		SwipeCount:    doc.Swipes,
		PricePerSwipe: doc.PricePerSwipe,
		BuyerName:     doc.Buyer,
		ContactPhone:  doc.ContactInfo,
		Note:          doc.Note,
		ListedAt:      doc.ListedTime.UTC(),
	}
	for _, t := range doc.Dates {
		l.Dates = append(l.Dates, listing.DateOf(t.UTC()))
	}
	for _, m := range doc.Meals {
		l.Meals = append(l.Meals, listing.Meal(m))
	}
	for _, loc := range doc.Locations {
		l.Locations = append(l.Locations, listing.Location(loc))
	}

	if err := listing.ValidateStored(*l); err != nil {
		return nil, &listing.DecodeError{ID: l.ID, Err: err}
	}
	return l, nil
}
