package mongo

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/repository"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func baseTime() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func listingDoc(id primitive.ObjectID, listedTime time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "swipes", Value: 2},
		{Key: "pricePerSwipe", Value: 5.0},
		{Key: "dates", Value: bson.A{time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)}},
		{Key: "meals", Value: bson.A{"Lunch"}},
		{Key: "locations", Value: bson.A{"Anteatery"}},
		{Key: "buyer", Value: "Peter"},
		{Key: "listedTime", Value: listedTime},
		{Key: "contactInfo", Value: "(555) 123-4567"},
		{Key: "note", Value: ""},
	}
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestListingRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert assigns object id", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		l := &listing.Listing{
			SwipeCount:    2,
			PricePerSwipe: 5,
			Dates:         []listing.Date{"2024-05-02"},
			Meals:         []listing.Meal{listing.MealLunch},
			Locations:     []listing.Location{listing.LocationAnteatery},
			BuyerName:     "Peter",
			ContactPhone:  "(555) 123-4567",
			ListedAt:      baseTime(),
		}
		require.NoError(mt, repo.Insert(context.Background(), l))
		_, err := primitive.ObjectIDFromHex(l.ID)
		require.NoError(mt, err)
	})

	mt.Run("insert duplicate key", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		l := &listing.Listing{Dates: []listing.Date{"2024-05-02"}, ListedAt: baseTime()}
		require.ErrorIs(mt, repo.Insert(context.Background(), l), repository.ErrConflict)
		require.Empty(mt, l.ID)
	})

	mt.Run("recent skips malformed documents", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)

		docs := make([]bson.D, 0, 20)
		for i := range 19 {
			docs = append(docs, listingDoc(primitive.NewObjectID(), baseTime().Add(-time.Duration(i)*time.Minute)))
		}
		broken := listingDoc(primitive.NewObjectID(), baseTime().Add(-time.Hour))
		broken[1] = bson.E{Key: "swipes", Value: "two"}
		docs = append(docs, broken)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, docs...))

		batch, err := repo.Recent(context.Background(), 20)
		require.NoError(mt, err)
		require.Len(mt, batch.Listings, 19)
		require.Equal(mt, 1, batch.Skipped)
		require.Equal(mt, baseTime(), batch.Listings[0].ListedAt)
		require.Equal(mt, []listing.Date{"2024-05-02"}, batch.Listings[0].Dates)
	})

	mt.Run("recent skips documents missing required fields", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)

		incomplete := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "swipes", Value: 2},
			{Key: "listedTime", Value: baseTime()},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			listingDoc(primitive.NewObjectID(), baseTime()), incomplete))

		batch, err := repo.Recent(context.Background(), 20)
		require.NoError(mt, err)
		require.Len(mt, batch.Listings, 1)
		require.Equal(mt, 1, batch.Skipped)
	})

	mt.Run("recent skips documents with a non-finite price", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)

		nan := listingDoc(primitive.NewObjectID(), baseTime().Add(-time.Minute))
		nan[2] = bson.E{Key: "pricePerSwipe", Value: math.NaN()}
		inf := listingDoc(primitive.NewObjectID(), baseTime().Add(-2*time.Minute))
		inf[2] = bson.E{Key: "pricePerSwipe", Value: math.Inf(1)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			listingDoc(primitive.NewObjectID(), baseTime()), nan, inf))

		batch, err := repo.Recent(context.Background(), 20)
		require.NoError(mt, err)
		require.Len(mt, batch.Listings, 1)
		require.Equal(mt, 2, batch.Skipped)
		require.Equal(mt, 5.0, batch.Listings[0].PricePerSwipe)
	})

	mt.Run("recent query failure", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad sort",
		}))

		_, err := repo.Recent(context.Background(), 20)
		require.Error(mt, err)
	})

	mt.Run("get found", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, listingDoc(id, baseTime())))

		got, err := repo.Get(context.Background(), id.Hex())
		require.NoError(mt, err)
		require.Equal(mt, id.Hex(), got.ID)
		require.Equal(mt, "Peter", got.BuyerName)
		require.Equal(mt, 10.0, got.Total())
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.Get(context.Background(), primitive.NewObjectID().Hex())
		require.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("get invalid id", func(mt *mtest.T) {
		repo := NewListingRepository(mt.Coll)

		_, err := repo.Get(context.Background(), "not-an-object-id")
		require.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("listing collection from config", func(mt *mtest.T) {
		coll := ListingCollection(mt.Client, Config{Database: "campus"})
		require.Equal(mt, "campus", coll.Database().Name())
		require.Equal(mt, ListingsCollection, coll.Name())

		coll = ListingCollection(mt.Client, Config{Collection: "offers"})
		require.Equal(mt, DefaultDatabase, coll.Database().Name())
		require.Equal(mt, "offers", coll.Name())
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, EnsureIndexes(context.Background(), mt.Coll))
	})
}
